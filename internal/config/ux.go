package config

import (
	"fmt"
	"time"
)

// Themes.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	// Theme selects the color palette: auto, light or dark.
	Theme string `json:"theme" yaml:"theme"`

	// CartPaneRatio is the width share of the product pane (0.0-1.0).
	// Default is 0.6 (products left, cart right).
	CartPaneRatio float64 `json:"cart_pane_ratio" yaml:"cart_pane_ratio"`

	// ResizeDebounce delays re-layout after terminal resizes.
	ResizeDebounce string `json:"resize_debounce,omitempty" yaml:"resize_debounce,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:          ThemeAuto,
		CartPaneRatio:  0.6,
		ResizeDebounce: "50ms",
	}
}

// Validate checks the UI settings.
func (u UIConfig) Validate() error {
	switch u.Theme {
	case "", ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui theme: %s (valid: auto, light, dark)", u.Theme)
	}
	if u.CartPaneRatio < 0 || u.CartPaneRatio > 1 {
		return fmt.Errorf("ui cart_pane_ratio must be within [0,1], got %v", u.CartPaneRatio)
	}
	return nil
}

// GetResizeDebounce returns the resize debounce as a duration (zero if unset
// or invalid).
func (u UIConfig) GetResizeDebounce() time.Duration {
	d, err := time.ParseDuration(u.ResizeDebounce)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
