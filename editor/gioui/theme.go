package gioui

import (
	_ "embed"
	"fmt"
	"image/color"

	"gioui.org/widget"
	"gioui.org/widget/material"
)

type Theme struct {
	Material material.Theme
	Button   struct {
		Filled   ButtonStyle
		Text     ButtonStyle
		Disabled ButtonStyle
	}
	IconButton struct {
		Enabled  IconButtonStyle
		Disabled IconButtonStyle
		Error    IconButtonStyle
	}
	NumericUpDown NumericUpDownStyle
	Menu          MenuStyle
	SongPanel     struct {
		Bg         color.NRGBA
		RowHeader  LabelStyle
		RowValue   LabelStyle
		Expander   LabelStyle
		Version    LabelStyle
		ErrorColor color.NRGBA
	}
	Alert struct {
		Info    PopupAlertStyle
		Warning PopupAlertStyle
		Error   PopupAlertStyle
	}
	Dialog    DialogStyles
	Popup     PopupStyle
	Tooltip   TooltipStyle
	Split     SplitStyle
	ScrollBar ScrollBarStyle
	TextField TextFieldStyle
	Roll      RollStyle
	KeyStrip  KeyStripStyle
	Ruler     RulerStyle
	VuMeter   VuMeterStyle

	iconCache map[*byte]*widget.Icon
}

//go:embed theme.yml
var defaultTheme []byte

// NewTheme returns the theme, overlaid with the user's own theme.yml if one
// exists in the config directory. The returned error is only about the user
// overlay; the embedded defaults are decoded strictly and panic when broken.
func NewTheme() (*Theme, error) {
	theme := Theme{Material: *material.NewTheme()}
	err := ReadConfig(defaultTheme, "theme.yml", &theme)
	return &theme, err
}

// Icon caches widget.Icons so that each of the icons.* blobs is parsed only
// once, no matter how often it appears in a layout.
func (th *Theme) Icon(data []byte) *widget.Icon {
	if icon, ok := th.iconCache[&data[0]]; ok {
		return icon
	}
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(fmt.Errorf("invalid icon: %w", err))
	}
	if th.iconCache == nil {
		th.iconCache = make(map[*byte]*widget.Icon)
	}
	th.iconCache[&data[0]] = icon
	return icon
}
