package draw

// Color is an ANSI SGR sequence applied before a cell is written.
// The zero value means the terminal default.
type Color string

// Palette used by the game screens.
const (
	ColorDefault     Color = ""
	ColorReset       Color = "\033[0m"
	ColorBold        Color = "\033[1m"
	ColorDim         Color = "\033[2m"
	ColorRed         Color = "\033[31m"
	ColorGreen       Color = "\033[32m"
	ColorYellow      Color = "\033[33m"
	ColorBlue        Color = "\033[34m"
	ColorMagenta     Color = "\033[35m"
	ColorCyan        Color = "\033[36m"
	ColorWhite       Color = "\033[37m"
	ColorBrightRed   Color = "\033[91m"
	ColorBrightGreen Color = "\033[92m"
	ColorBrightCyan  Color = "\033[96m"
)
