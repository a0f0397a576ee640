package progress

import (
	"errors"
	"fmt"
	"strings"
)

// style.go defines the glyph sets used to draw a bar.

// ErrUnknownStyle is returned when a style name has no preset.
var ErrUnknownStyle = errors.New("unknown style")

// Style holds the glyphs for the bar delimiters and cells
type Style struct {
	Begin string `json:"begin"`
	Empty string `json:"empty"`
	Full  string `json:"full"`
	End   string `json:"end"`
}

// DefaultStyle is the plain ASCII look: [=====     ]
var DefaultStyle = Style{Begin: "[", Empty: " ", Full: "=", End: "]"}

// UTF-8 presets.
var (
	SolidUTF8  = Style{Begin: "", Empty: "▓", Full: "░", End: ""}
	LineUTF8   = Style{Begin: "", Empty: "╶", Full: "━", End: ""}
	BoxesUTF8  = Style{Begin: "", Empty: "▣", Full: "□", End: ""}
	FilledUTF8 = Style{Begin: "", Empty: "▫", Full: "◼", End: ""}
)

var presets = map[string]Style{
	"default": DefaultStyle,
	"solid":   SolidUTF8,
	"line":    LineUTF8,
	"boxes":   BoxesUTF8,
	"filled":  FilledUTF8,
}

// StyleByName returns the preset registered under name.
// An empty name selects DefaultStyle.
func StyleByName(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return DefaultStyle, nil
	}
	s, ok := presets[key]
	if !ok {
		return Style{}, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return s, nil
}

// StyleNames lists the preset names in display order.
func StyleNames() []string {
	return []string{"default", "solid", "line", "boxes", "filled"}
}
