// Package theme defines pyrite's colour themes.
//
// A theme has two attribute groups, "menu" for the menu bar, tab bar and
// status line, and "document" for the text area. Attributes are hex colours
// addressed as "group.name" (for example "document.select_bg"). Attributes a
// theme leaves out are inherited from its base theme, and a few are derived
// by blending when the base does not define them either.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultName is the theme used when the configured one does not exist.
const DefaultName = "dark"

var (
	// ErrNoSuchTheme is returned for unknown theme names.
	ErrNoSuchTheme = errors.New("no such theme")
	// ErrNoSuchAttribute is returned for unknown attribute names.
	ErrNoSuchAttribute = errors.New("no such theme attribute")
	// ErrBadColor is returned for attribute values that are not hex colours.
	ErrBadColor = errors.New("invalid colour")
)

// Attribute names. Every theme resolves all of them.
const (
	MenuFG       = "menu.fg"
	MenuBG       = "menu.bg"
	MenuActiveFG = "menu.active_fg"
	MenuActiveBG = "menu.active_bg"

	DocFG       = "document.fg"
	DocBG       = "document.bg"
	DocSelectFG = "document.select_fg"
	DocSelectBG = "document.select_bg"
	DocCursor   = "document.cursor"
	DocColumn   = "document.column"
	DocGutterFG = "document.gutter_fg"
	DocGutterBG = "document.gutter_bg"
)

var attributeNames = []string{
	MenuFG, MenuBG, MenuActiveFG, MenuActiveBG,
	DocFG, DocBG, DocSelectFG, DocSelectBG, DocCursor, DocColumn, DocGutterFG, DocGutterBG,
}

// Attributes returns every attribute name in a fixed order.
func Attributes() []string {
	return slices.Clone(attributeNames)
}

// Element is a drawable part of the screen.
type Element uint8

const (
	ElemMenuBar Element = iota
	ElemMenuActive
	ElemTab
	ElemTabActive
	ElemStatus
	ElemText
	ElemSelection
	ElemColumnMark
	ElemCursor
	ElemGutter
	elemCount
)

// Theme is a fully resolved theme.
type Theme struct {
	name   string
	base   string
	colors map[string]colorful.Color
	// explicit marks colours set by this theme or an ancestor, as opposed
	// to derived ones.
	explicit map[string]bool
	styles   [elemCount]tcell.Style
}

// Name returns the theme name.
func (t *Theme) Name() string { return t.name }

// Base returns the name of the widget look the theme was modelled on
// ("equilux" for dark, "arc" for light).
func (t *Theme) Base() string { return t.base }

// Attribute returns the colour of a named attribute as "#rrggbb".
func (t *Theme) Attribute(name string) (string, error) {
	c, ok := t.colors[name]
	if !ok {
		return "", fmt.Errorf("theme %s: %q: %w", t.name, name, ErrNoSuchAttribute)
	}
	return c.Hex(), nil
}

// Color returns the tcell colour of a named attribute.
func (t *Theme) Color(name string) (tcell.Color, error) {
	c, ok := t.colors[name]
	if !ok {
		return tcell.ColorDefault, fmt.Errorf("theme %s: %q: %w", t.name, name, ErrNoSuchAttribute)
	}
	return toTcell(c), nil
}

// Style returns the style for a screen element.
func (t *Theme) Style(e Element) tcell.Style {
	if e >= elemCount {
		return tcell.StyleDefault
	}
	return t.styles[e]
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Spec is an unresolved theme: a base theme name plus attribute overrides,
// as read from a theme file.
type Spec struct {
	Name string
	// Inherits names the theme supplying attributes Spec leaves out.
	Inherits string
	Base     string
	Colors   map[string]string
}

// SpecFromMap builds a Spec from decoded TOML of the form
//
//	inherits = "dark"
//	[menu]
//	bg = "#303030"
//	[document]
//	select_bg = "#224488"
func SpecFromMap(name string, data map[string]any) (Spec, error) {
	s := Spec{Name: name, Colors: make(map[string]string)}
	for key, v := range data {
		switch key {
		case "inherits", "base":
			str, ok := v.(string)
			if !ok {
				return Spec{}, fmt.Errorf("theme %s: %s must be a string", name, key)
			}
			if key == "inherits" {
				s.Inherits = str
			} else {
				s.Base = str
			}
		case "menu", "document":
			group, ok := v.(map[string]any)
			if !ok {
				return Spec{}, fmt.Errorf("theme %s: [%s] must be a table", name, key)
			}
			for attr, cv := range group {
				full := key + "." + attr
				if !slices.Contains(attributeNames, full) {
					return Spec{}, fmt.Errorf("theme %s: %q: %w", name, full, ErrNoSuchAttribute)
				}
				str, ok := cv.(string)
				if !ok {
					return Spec{}, fmt.Errorf("theme %s: %s: %w", name, full, ErrBadColor)
				}
				s.Colors[full] = str
			}
		default:
			return Spec{}, fmt.Errorf("theme %s: unknown key %q", name, key)
		}
	}
	return s, nil
}

// Resolve builds a Theme from s, taking missing attributes from parent
// (which may be nil for a root theme).
func Resolve(s Spec, parent *Theme) (*Theme, error) {
	t := &Theme{
		name:     s.Name,
		base:     s.Base,
		colors:   make(map[string]colorful.Color),
		explicit: make(map[string]bool),
	}
	if parent != nil {
		for k := range parent.explicit {
			t.colors[k] = parent.colors[k]
			t.explicit[k] = true
		}
		if t.base == "" {
			t.base = parent.base
		}
	}

	for k, v := range s.Colors {
		c, err := colorful.Hex(normaliseHex(v))
		if err != nil {
			return nil, fmt.Errorf("theme %s: %s=%q: %w", s.Name, k, v, ErrBadColor)
		}
		t.colors[k] = c
		t.explicit[k] = true
	}

	if err := t.derive(); err != nil {
		return nil, err
	}
	t.buildStyles()
	return t, nil
}

// normaliseHex expands "#rgb" to "#rrggbb".
func normaliseHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) == 4 {
		return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	return strings.ToLower(s)
}

// derive fills attributes that can be computed from the core colours.
func (t *Theme) derive() error {
	for _, k := range []string{MenuFG, MenuBG, DocFG, DocBG} {
		if _, ok := t.colors[k]; !ok {
			return fmt.Errorf("theme %s: %q is required: %w", t.name, k, ErrNoSuchAttribute)
		}
	}
	fg, bg := t.colors[DocFG], t.colors[DocBG]

	fill := func(key string, c colorful.Color) {
		if _, ok := t.colors[key]; !ok {
			t.colors[key] = c
		}
	}
	fill(MenuActiveFG, t.colors[MenuFG])
	fill(MenuActiveBG, t.colors[MenuBG].BlendLab(fg, 0.35))
	fill(DocSelectFG, fg)
	fill(DocSelectBG, bg.BlendLab(t.colors[MenuActiveBG], 0.6))
	fill(DocCursor, fg)
	fill(DocColumn, t.colors[DocSelectBG].BlendLab(fg, 0.25))
	fill(DocGutterBG, bg)
	fill(DocGutterFG, bg.BlendLab(fg, 0.5))
	return nil
}

func (t *Theme) buildStyles() {
	pair := func(fg, bg string) tcell.Style {
		return tcell.StyleDefault.Foreground(toTcell(t.colors[fg])).Background(toTcell(t.colors[bg]))
	}
	t.styles[ElemMenuBar] = pair(MenuFG, MenuBG)
	t.styles[ElemMenuActive] = pair(MenuActiveFG, MenuActiveBG)
	t.styles[ElemTab] = pair(MenuFG, MenuBG)
	t.styles[ElemTabActive] = pair(DocFG, DocBG).Bold(true)
	t.styles[ElemStatus] = pair(MenuFG, MenuBG)
	t.styles[ElemText] = pair(DocFG, DocBG)
	t.styles[ElemSelection] = pair(DocSelectFG, DocSelectBG)
	t.styles[ElemColumnMark] = pair(DocFG, DocColumn)
	t.styles[ElemCursor] = pair(DocBG, DocCursor)
	t.styles[ElemGutter] = pair(DocGutterFG, DocGutterBG)
}
