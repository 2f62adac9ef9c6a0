package palvideo

import (
	"encoding/json"
	"fmt"
)

// DefaultPromotionTicks is how long a single finger must rest before it
// becomes a secondary click.
const DefaultPromotionTicks = 500

// Config holds driver settings supplied by the engine at construction.
type Config struct {
	// Width and Height are the logical display size.
	Width  int `json:"width"`
	Height int `json:"height"`

	Fullscreen bool   `json:"fullscreen"`
	Title      string `json:"title,omitempty"`

	// Finger counts that select the scroll, keyboard and info gestures.
	// Each must be in [2, 4] and ScrollFingers must differ from
	// KeyboardFingers.
	ScrollFingers   int `json:"scrollFingers"`
	KeyboardFingers int `json:"keyboardFingers"`
	InfoFingers     int `json:"infoFingers"`

	// PromotionTicks is the long-press threshold in milliseconds.
	PromotionTicks uint32 `json:"promotionTicks"`

	// UseSoftKeyboard enables show/hide requests for an on-screen keyboard.
	UseSoftKeyboard bool `json:"useSoftKeyboard"`

	// Brightness is the engine's 0..40+ gamma setting; 40 is neutral.
	Brightness int `json:"brightness"`

	// ScreenshotDir receives PNGs queued with FrameCompositor.Screenshot.
	ScreenshotDir string `json:"screenshotDir,omitempty"`

	// Debug logs per-frame stats at debug level.
	Debug bool `json:"debug"`
}

// DefaultConfig returns the settings used when the engine supplies none.
func DefaultConfig() Config {
	return Config{
		Width:           640,
		Height:          480,
		Title:           "palvideo",
		ScrollFingers:   2,
		KeyboardFingers: 3,
		InfoFingers:     4,
		PromotionTicks:  DefaultPromotionTicks,
		UseSoftKeyboard: true,
		Brightness:      40,
		ScreenshotDir:   "screenshots",
	}
}

// Validate checks the display size and gesture finger counts.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrGeometry, c.Width, c.Height)
	}
	return validateFingers(c)
}

// LoadConfig parses JSON over DefaultConfig, so omitted fields keep their
// defaults, and validates the result.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PromotionTicks == 0 {
		cfg.PromotionTicks = DefaultPromotionTicks
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
