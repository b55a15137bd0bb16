package lukasbrot

import "math/bits"

// GCD is the binary (Stein) greatest common divisor, with
// GCD(0, n) == GCD(n, 0) == n and so GCD(0, 0) == 0.
func GCD(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	shift := bits.TrailingZeros64(a | b)
	a >>= bits.TrailingZeros64(a)
	for {
		b >>= bits.TrailingZeros64(b)
		if a > b {
			a, b = b, a
		}
		b -= a
		if b == 0 {
			return a << shift
		}
	}
}
