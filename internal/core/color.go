package core

// Color is a terminal palette entry used for both halves of a half-block cell.
// Values map to ANSI 256-color codes in the platform layer.
type Color uint8

// Base palette.
const (
	ColorDefault Color = iota
	ColorBlack
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorWhite
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)

// Semantic aliases for board elements.
const (
	ColorGround     = ColorBlack
	ColorBrick      = ColorOrange
	ColorConcrete   = ColorGray
	ColorPlayer     = ColorBrightYellow
	ColorQuickTank  = ColorGreen
	ColorProjectile = ColorBrightWhite
	ColorExplosion  = ColorRed
)

// ANSI returns the 256-color code for the palette entry, or "" for the
// terminal default.
func (c Color) ANSI() string {
	switch c {
	case ColorBlack:
		return "0"
	case ColorRed:
		return "9"
	case ColorGreen:
		return "2"
	case ColorYellow:
		return "3"
	case ColorBlue:
		return "4"
	case ColorWhite:
		return "7"
	case ColorBrightYellow:
		return "11"
	case ColorBrightWhite:
		return "15"
	case ColorOrange:
		return "130"
	case ColorGray:
		return "250"
	case ColorDarkGray:
		return "238"
	default:
		return ""
	}
}
