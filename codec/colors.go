package codec

import (
	"strings"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	KeyColor ColorAttr = iota
	StringColor
	NumberColor
	BoolColor
	NullColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			KeyColor:    color.RGB(128, 168, 196).SprintfFunc(),
			StringColor: color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor: color.RGB(128, 216, 236).SprintfFunc(),
			BoolColor:   color.CyanString,
			NullColor:   color.RGB(168, 0, 196).SprintfFunc(),
			SepColor:    color.RGB(196, 128, 128).SprintfFunc(),
		},
	}
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.ReplaceAll(v, "%", "%%"))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

// Color renders s with the color for a, or unchanged when c is nil.
func (c *Colors) Color(a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	return c.Get(a)(s)
}

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	if f, ok := c.Map[a]; ok {
		return f
	}
	if c.Default != nil {
		return c.Default
	}
	return colorDefault
}
