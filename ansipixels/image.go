package ansipixels

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// DrawTrueColorImage draws 2 pixel rows per terminal line using lower half
// blocks, top pixel as background and bottom pixel as foreground color.
// Colors are only emitted when they change from the previous cell.
func (ap *AnsiPixels) DrawTrueColorImage(sx, sy int, img *image.RGBA) error {
	prevFG := color.RGBA{}
	prevBG := color.RGBA{}
	ap.WriteAtStr(sx, sy, BlackOnBlack) // both fg/bg black matching prevFG/prevBG.
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y += 2 {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			topPixel := img.RGBAAt(x, y)
			bottomPixel := img.RGBAAt(x, y+1) // transparent black past the last odd row.
			switch {
			case topPixel == bottomPixel:
				// space instead of full block, 1 byte and no color bleeding on some terminals.
				if bottomPixel == prevBG {
					ap.WriteRune(' ')
					continue // we haven't changed color
				}
				ap.Printf("\033[48;2;%d;%d;%dm ", topPixel.R, topPixel.G, topPixel.B)
				prevBG = topPixel
				continue
			case bottomPixel == prevFG && topPixel == prevBG:
				ap.WriteRune(BottomHalfPixel)
			default:
				ap.Printf("\033[48;2;%d;%d;%dm\033[38;2;%d;%d;%dm%c",
					topPixel.R, topPixel.G, topPixel.B,
					bottomPixel.R, bottomPixel.G, bottomPixel.B, BottomHalfPixel)
			}
			prevFG = bottomPixel
			prevBG = topPixel
		}
		sy++
		ap.MoveCursor(sx, sy)
	}
	// bufio.Writer errors are sticky, so this reports any failed write above.
	_, err := ap.Out.WriteString(Reset)
	return err
}

// DrawMonoImage draws pixels brighter than mid gray with the given color
// and leaves the others blank.
func (ap *AnsiPixels) DrawMonoImage(sx, sy int, img *image.Gray, color string) error {
	ap.WriteAtStr(sx, sy, color)
	threshold := uint8(127)
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y += 2 {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			pixel1 := img.GrayAt(x, y).Y > threshold
			pixel2 := img.GrayAt(x, y+1).Y > threshold
			switch {
			case pixel1 && pixel2:
				ap.WriteRune(FullPixel)
			case pixel1 && !pixel2:
				ap.WriteRune(TopHalfPixel)
			case !pixel1 && pixel2:
				ap.WriteRune(BottomHalfPixel)
			default:
				_ = ap.Out.WriteByte(' ')
			}
		}
		sy++
		ap.MoveCursor(sx, sy)
	}
	_, err := ap.Out.WriteString(Reset)
	return err
}

func GrayScaleImage(rgbaImg *image.RGBA) *image.Gray {
	grayImg := image.NewGray(rgbaImg.Bounds())
	for y := rgbaImg.Bounds().Min.Y; y < rgbaImg.Bounds().Max.Y; y++ {
		for x := rgbaImg.Bounds().Min.X; x < rgbaImg.Bounds().Max.X; x++ {
			c := rgbaImg.RGBAAt(x, y)
			// luminance
			grayValue := uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
			grayImg.SetGray(x, y, color.Gray{Y: grayValue})
		}
	}
	return grayImg
}

// ScaleImage enlarges img by an integer zoom factor without smoothing,
// so each source pixel becomes a zoom x zoom square.
func ScaleImage(img *image.RGBA, zoom int) *image.RGBA {
	if zoom <= 1 {
		return img
	}
	b := img.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*zoom, b.Dy()*zoom))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)
	return scaled
}

// ShowScaledImage writes an image, already sized to the screen, at the top left corner.
// True color or mono depending on TrueColor.
func (ap *AnsiPixels) ShowScaledImage(img *image.RGBA) error {
	if ap.TrueColor {
		return ap.DrawTrueColorImage(0, 0, img)
	}
	return ap.DrawMonoImage(0, 0, GrayScaleImage(img), ap.MonoColor)
}

// ImageString is the mono half block rendering of img without cursor
// positioning, one line per 2 pixel rows (for non terminal outputs).
func ImageString(img *image.RGBA) string {
	gray := GrayScaleImage(img)
	b := gray.Bounds()
	out := make([]rune, 0, (b.Dx()+1)*(b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			p1 := gray.GrayAt(x, y).Y > 127
			p2 := gray.GrayAt(x, y+1).Y > 127
			switch {
			case p1 && p2:
				out = append(out, FullPixel)
			case p1:
				out = append(out, TopHalfPixel)
			case p2:
				out = append(out, BottomHalfPixel)
			default:
				out = append(out, ' ')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
