// Package ui provides the SquareFill viewer UI components.
//
// This file defines a compact Fyne theme that leaves room for the grid canvas.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// SquareFillTheme wraps the default Fyne theme with compact sizing overrides
// so the sidebar stays narrow next to the solution canvas.
type SquareFillTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool // false follows the system variant
}

// NewSquareFillTheme creates a new SquareFillTheme with the system default variant.
func NewSquareFillTheme() *SquareFillTheme {
	return &SquareFillTheme{base: theme.DefaultTheme()}
}

// NewSquareFillThemeWithVariant creates a SquareFillTheme with a specific light/dark variant.
func NewSquareFillThemeWithVariant(variant fyne.ThemeVariant) *SquareFillTheme {
	return &SquareFillTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
		fixed:   true,
	}
}

// SetVariant pins the theme to a light or dark variant.
func (t *SquareFillTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
	t.fixed = true
}

// VariantForName maps the config theme name to a variant. "system" and
// unknown names return ok=false.
func VariantForName(name string) (fyne.ThemeVariant, bool) {
	switch name {
	case "light":
		return theme.VariantLight, true
	case "dark":
		return theme.VariantDark, true
	default:
		return 0, false
	}
}

// Color delegates to the base theme, using the pinned variant if any.
func (t *SquareFillTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *SquareFillTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *SquareFillTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *SquareFillTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
