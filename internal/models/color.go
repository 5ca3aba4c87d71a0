package models

import (
	"encoding/json"
	"fmt"
)

// BackgroundColor is a task card color from a fixed palette.
type BackgroundColor int

const (
	ColorWhite BackgroundColor = iota
	ColorLightBlue
	ColorLightGreen
	ColorLightYellow
	ColorLightOrange
	ColorLightPink
	ColorLightPurple
	ColorLightGray
)

// DefaultColor is assigned to tasks without a color.
const DefaultColor = ColorWhite

var colorNames = [...]string{
	"WHITE",
	"LIGHT_BLUE",
	"LIGHT_GREEN",
	"LIGHT_YELLOW",
	"LIGHT_ORANGE",
	"LIGHT_PINK",
	"LIGHT_PURPLE",
	"LIGHT_GRAY",
}

var colorHex = [...]string{
	"#ffffff",
	"#e3f2fd",
	"#e8f5e9",
	"#fff9c4",
	"#ffe0b2",
	"#fce4ec",
	"#f3e5f5",
	"#f5f5f5",
}

// Colors lists the palette in display order.
func Colors() []BackgroundColor {
	out := make([]BackgroundColor, len(colorNames))
	for i := range colorNames {
		out[i] = BackgroundColor(i)
	}
	return out
}

// Valid reports whether c belongs to the palette.
func (c BackgroundColor) Valid() bool {
	return c >= ColorWhite && c <= ColorLightGray
}

func (c BackgroundColor) String() string {
	if !c.Valid() {
		return fmt.Sprintf("BackgroundColor(%d)", int(c))
	}
	return colorNames[c]
}

// Hex returns the CSS hex value of the color, or the default's for an
// invalid value.
func (c BackgroundColor) Hex() string {
	if !c.Valid() {
		return colorHex[DefaultColor]
	}
	return colorHex[c]
}

// ParseColor returns the palette entry with the given wire name.
func ParseColor(name string) (BackgroundColor, error) {
	for i, n := range colorNames {
		if n == name {
			return BackgroundColor(i), nil
		}
	}
	return DefaultColor, fmt.Errorf("unknown background color %q", name)
}

// MarshalJSON encodes the color by name.
func (c BackgroundColor) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid background color %d", int(c))
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes a color name, falling back to DefaultColor.
func (c *BackgroundColor) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		*c = DefaultColor
		return nil
	}
	parsed, err := ParseColor(name)
	if err != nil {
		*c = DefaultColor
		return nil
	}
	*c = parsed
	return nil
}
