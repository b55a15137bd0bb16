package ansipixels

const (
	FullPixel       = '█'
	TopHalfPixel    = '▀'
	BottomHalfPixel = '▄'

	RoundTopLeft     = "╭"
	RoundTopRight    = "╮"
	RoundBottomLeft  = "╰"
	RoundBottomRight = "╯"

	Horizontal = "─"
	Vertical   = "│"
)
