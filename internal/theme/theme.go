// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/pagehist/internal/logger"
)

// Theme is a named set of styles.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style. Dotted names fall back to their base
// ("item.text" -> "item"), then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		if name != "Default" {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// DevComfortDark is the built-in theme.
var DevComfortDark Theme

func init() {
	dcBackground := tcell.NewHexColor(0x2a2f38)
	dcForeground := tcell.NewHexColor(0xc5cdd9)
	dcComment := tcell.NewHexColor(0x5c6370)
	dcOrange := tcell.NewHexColor(0xd19a66)
	dcYellow := tcell.NewHexColor(0xe5c07b)
	dcGreen := tcell.NewHexColor(0x98c379)
	dcCyan := tcell.NewHexColor(0x56b6c2)
	dcBlue := tcell.NewHexColor(0x61afef)
	dcMagenta := tcell.NewHexColor(0xc678dd)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(dcForeground)

	DevComfortDark = Theme{
		Name:   "DevComfort Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":         baseStyle,
			"Header":          baseStyle.Foreground(dcBlue).Bold(true),
			"Section":         baseStyle.Foreground(dcComment).Bold(true),
			"Empty":           baseStyle.Foreground(dcComment).Italic(true),
			"Selection":       baseStyle.Reverse(true),
			"item":            baseStyle,
			"item.text":       baseStyle.Foreground(dcGreen),
			"item.image":      baseStyle.Foreground(dcCyan),
			"item.shape":      baseStyle.Foreground(dcOrange),
			"item.annotation": baseStyle.Foreground(dcYellow),
			"Help":            baseStyle.Foreground(dcComment),

			"StatusBar":        tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground),
			"StatusBarHistory": tcell.StyleDefault.Background(dcBackground).Foreground(dcYellow),
			"StatusBarMessage": tcell.StyleDefault.Background(dcBackground).Foreground(dcForeground).Bold(true),
			"StatusBarError":   tcell.StyleDefault.Background(dcBackground).Foreground(dcMagenta).Bold(true),
		},
	}
	CurrentTheme = &DevComfortDark
}

// CurrentTheme is the active theme.
var CurrentTheme *Theme

func GetCurrentTheme() *Theme {
	if CurrentTheme == nil {
		CurrentTheme = &DevComfortDark
	}
	return CurrentTheme
}

func SetCurrentTheme(theme *Theme) {
	if theme != nil {
		CurrentTheme = theme
		logger.Infof("Theme switched to: %s", theme.Name)
	}
}
