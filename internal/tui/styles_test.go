package tui

import (
	"testing"

	catppuccin "github.com/catppuccin/go"
)

func TestFlavorFromName(t *testing.T) {
	tests := []struct {
		name string
		want catppuccin.Flavor
	}{
		{"latte", catppuccin.Latte},
		{"frappe", catppuccin.Frappe},
		{"macchiato", catppuccin.Macchiato},
		{"mocha", catppuccin.Mocha},
		{"", catppuccin.Mocha},
		{"solarized", catppuccin.Mocha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := flavorFromName(tt.name)
			if got.Base().Hex != tt.want.Base().Hex || got.Mauve().Hex != tt.want.Mauve().Hex {
				t.Errorf("flavorFromName(%q) picked the wrong palette", tt.name)
			}
		})
	}
}

func TestStyles_AllFlavorsRender(t *testing.T) {
	for _, flavor := range []string{"latte", "frappe", "macchiato", "mocha"} {
		t.Run(flavor, func(t *testing.T) {
			s := NewStyles(flavor)
			for _, style := range []interface{ Render(...string) string }{
				s.TitleStyle(), s.NameStyle(), s.PathStyle(), s.HelpStyle(),
				s.AccentStyle(), s.SuccessStyle(), s.ErrorStyle(), s.SelectedStyle(),
			} {
				if style.Render("x") == "" {
					t.Error("style rendered nothing")
				}
			}
		})
	}
}

func TestStyles_Emphasis(t *testing.T) {
	s := NewStyles("mocha")
	if !s.TitleStyle().GetBold() || !s.ErrorStyle().GetBold() || !s.SelectedStyle().GetBold() {
		t.Error("title, error and selected styles should be bold")
	}
	if s.PathStyle().GetBold() {
		t.Error("path style should not be bold")
	}
}
