package ansipixels

// Ansi codes.
const (
	Bold    = "\x1b[1m"
	Reverse = "\x1b[7m"

	Reset = "\033[0m"
	// Foreground Colors.
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Gray   = "\033[37m"
	White  = "\033[97m"

	// Both foreground and background black, the starting state of true color images.
	BlackOnBlack = "\033[38;5;0m\033[48;5;0m"
)
