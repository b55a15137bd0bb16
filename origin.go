// Package lukasbrot renders the coprimality field: pixel (c, r) of a window
// anchored at (x, y) is black when gcd(x+c, y+r) == 1 and white otherwise.
// Coordinates are arbitrarily large non-negative integers, 64 bits ones take
// the fast path.
package lukasbrot // import "github.com/corrodedHash/lukasbrot"

import (
	"errors"
	"math"
	"math/big"
	"math/bits"
	"strconv"

	"fortio.org/log"
)

var (
	ErrInvalidCoordinate  = errors.New("not a non-negative integer in any supported representation")
	ErrArithmeticOverflow = errors.New("window extends past the 64 bits coordinate range")
)

// CoordinateError is returned for start coordinates that can't be rendered.
// Err is one of [ErrInvalidCoordinate] or [ErrArithmeticOverflow].
type CoordinateError struct {
	X, Y string
	Err  error
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

func (e *CoordinateError) Error() string {
	return "coordinates " + strconv.Quote(e.X) + "/" + strconv.Quote(e.Y) + ": " + e.Err.Error()
}

// Origin is the top-left corner of a window of the field in one of the two
// representations, [Fixed] or [Big].
type Origin interface {
	// Check returns an error if a width x height window can't be computed
	// exactly from this origin.
	Check(width, height uint32) error
	// Coprime reports whether cell (col, row) of the window is coprime.
	Coprime(col, row uint32) bool
	// "x/y" in base 10.
	String() string
	// fillRows writes rows [first, last) of a window of the given width into dst,
	// which covers exactly those rows.
	fillRows(dst []byte, width, first, last uint32)
}

// isDigits is the accepted syntax, shared by both parsers so that only the
// magnitude decides the representation.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Parse picks the representation for the 2 base 10 start coordinates:
// [Fixed] when both fit in 64 bits, [Big] otherwise.
func Parse(startX, startY string) (Origin, error) {
	if !isDigits(startX) || !isDigits(startY) {
		return nil, &CoordinateError{X: startX, Y: startY, Err: ErrInvalidCoordinate}
	}
	x, errX := strconv.ParseUint(startX, 10, 64)
	y, errY := strconv.ParseUint(startY, 10, 64)
	if errX == nil && errY == nil {
		return Fixed{X: x, Y: y}, nil
	}
	bx, okX := new(big.Int).SetString(startX, 10)
	by, okY := new(big.Int).SetString(startY, 10)
	if !okX || !okY {
		return nil, &CoordinateError{X: startX, Y: startY, Err: ErrInvalidCoordinate}
	}
	log.LogVf("Coordinates %s/%s exceed 64 bits, using arbitrary precision", startX, startY)
	return Big{X: bx, Y: by}, nil
}

// ParseWindow is [Parse] followed by widening a [Fixed] origin whose window
// would run past math.MaxUint64, so each cell is still exact.
func ParseWindow(startX, startY string, width, height uint32) (Origin, error) {
	o, err := Parse(startX, startY)
	if err != nil {
		return nil, err
	}
	if f, ok := o.(Fixed); ok && f.Check(width, height) != nil {
		log.LogVf("Window %dx%d from %s overflows 64 bits, widening", width, height, f)
		return f.Widen(), nil
	}
	return o, nil
}

// Fixed is the fast path origin.
type Fixed struct {
	X, Y uint64
}

func fitsAfter(start uint64, size uint32) bool {
	return size == 0 || start <= math.MaxUint64-uint64(size-1)
}

func (f Fixed) Check(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if !fitsAfter(f.X, width) || !fitsAfter(f.Y, height) {
		return &CoordinateError{
			X:   strconv.FormatUint(f.X, 10),
			Y:   strconv.FormatUint(f.Y, 10),
			Err: ErrArithmeticOverflow,
		}
	}
	return nil
}

// Coprime falls back to arbitrary precision for cells past math.MaxUint64.
func (f Fixed) Coprime(col, row uint32) bool {
	x, carryX := bits.Add64(f.X, uint64(col), 0)
	y, carryY := bits.Add64(f.Y, uint64(row), 0)
	if carryX != 0 || carryY != 0 {
		return f.Widen().Coprime(col, row)
	}
	return GCD(x, y) == 1
}

func (f Fixed) String() string {
	return strconv.FormatUint(f.X, 10) + "/" + strconv.FormatUint(f.Y, 10)
}

// Widen returns the same origin in arbitrary precision.
func (f Fixed) Widen() Big {
	return Big{X: new(big.Int).SetUint64(f.X), Y: new(big.Int).SetUint64(f.Y)}
}

func (f Fixed) fillRows(dst []byte, width, first, last uint32) {
	i := 0
	for row := first; row < last; row++ {
		y := f.Y + uint64(row)
		for col := range width {
			setCell(dst[i:i+4], GCD(f.X+uint64(col), y) == 1)
			i += 4
		}
	}
}

// Big is the arbitrary precision origin. X and Y must be non-negative and are
// never modified by rendering (so one Big can be shared by concurrent renders).
type Big struct {
	X, Y *big.Int
}

func (b Big) Check(_, _ uint32) error {
	if b.X == nil || b.Y == nil || b.X.Sign() < 0 || b.Y.Sign() < 0 {
		return &CoordinateError{X: b.X.String(), Y: b.Y.String(), Err: ErrInvalidCoordinate}
	}
	return nil
}

func (b Big) Coprime(col, row uint32) bool {
	x := new(big.Int).SetUint64(uint64(col))
	x.Add(x, b.X)
	y := new(big.Int).SetUint64(uint64(row))
	y.Add(y, b.Y)
	return isOne(x.GCD(nil, nil, x, y))
}

func (b Big) String() string {
	return b.X.Text(10) + "/" + b.Y.Text(10)
}

var one = big.NewInt(1)

func isOne(z *big.Int) bool {
	return z.Cmp(one) == 0
}

func (b Big) fillRows(dst []byte, width, first, last uint32) {
	var x, y, g big.Int
	i := 0
	for row := first; row < last; row++ {
		y.SetUint64(uint64(row))
		y.Add(&y, b.Y)
		x.Set(b.X)
		for range width {
			setCell(dst[i:i+4], isOne(g.GCD(nil, nil, &x, &y)))
			x.Add(&x, one)
			i += 4
		}
	}
}
