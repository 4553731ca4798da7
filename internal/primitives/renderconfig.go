package primitives

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/lsystemx"
)

// ErrDepthLimit is returned when a requested depth exceeds the configured bound.
var ErrDepthLimit = errors.New("depth exceeds limit")

// ErrTreeLimit is returned when a requested tree count exceeds the configured bound.
var ErrTreeLimit = errors.New("trees exceed limit")

// Defaults for zero RenderConfig fields.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultTrees      = 1
	DefaultMaxDepth   = 12
	DefaultMaxTrees   = 64
	DefaultAngle      = 30.0
	DefaultScale      = 0.9
	DefaultStep       = 6.0
	DefaultStemWidth  = 1.0
	DefaultLeafFill   = "#40e000"
	DefaultLeafStroke = "#408000"
	DefaultStemFill   = "#b26a2d"
	DefaultBackground = "#000000"
)

// RenderConfig controls how an expanded grammar is drawn.
type RenderConfig struct {
	Width      int     `json:"width,omitempty" yaml:"width,omitempty"`
	Height     int     `json:"height,omitempty" yaml:"height,omitempty"`
	Trees      int     `json:"trees,omitempty" yaml:"trees,omitempty"`
	Depth      int     `json:"depth,omitempty" yaml:"depth,omitempty"`
	MaxDepth   int     `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	MaxTrees   int     `json:"max_trees,omitempty" yaml:"max_trees,omitempty"`
	Angle      float64 `json:"angle,omitempty" yaml:"angle,omitempty"` // degrees
	Scale      float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	Step       float64 `json:"step,omitempty" yaml:"step,omitempty"`
	StemWidth  float64 `json:"stem_width,omitempty" yaml:"stem_width,omitempty"`
	LeafFill   string  `json:"leaf_fill,omitempty" yaml:"leaf_fill,omitempty"`
	LeafStroke string  `json:"leaf_stroke,omitempty" yaml:"leaf_stroke,omitempty"`
	StemFill   string  `json:"stem_fill,omitempty" yaml:"stem_fill,omitempty"`
	Background string  `json:"background,omitempty" yaml:"background,omitempty"`
}

// DefaultRenderConfig returns a config with every field at its default.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{}.WithDefaults()
}

// WithDefaults returns a copy with zero fields replaced by defaults. Depth
// stays as given since zero is a meaningful depth.
func (c RenderConfig) WithDefaults() RenderConfig {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.Trees == 0 {
		c.Trees = DefaultTrees
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxTrees == 0 {
		c.MaxTrees = DefaultMaxTrees
	}
	if c.Angle == 0 {
		c.Angle = DefaultAngle
	}
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	if c.StemWidth == 0 {
		c.StemWidth = DefaultStemWidth
	}
	if c.LeafFill == "" {
		c.LeafFill = DefaultLeafFill
	}
	if c.LeafStroke == "" {
		c.LeafStroke = DefaultLeafStroke
	}
	if c.StemFill == "" {
		c.StemFill = DefaultStemFill
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	return c
}

// Validate checks a config that already has defaults applied.
func (c *RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas %dx%d must be positive", c.Width, c.Height)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth %d must not be negative", c.MaxDepth)
	}
	if c.MaxTrees < 1 {
		return fmt.Errorf("max_trees %d must be at least 1", c.MaxTrees)
	}
	if err := c.CheckTrees(c.Trees); err != nil {
		return err
	}
	if err := c.CheckDepth(c.Depth); err != nil {
		return err
	}
	if c.Scale <= 0 {
		return fmt.Errorf("scale %g must be positive", c.Scale)
	}
	if c.Step < 0 || c.StemWidth < 0 {
		return fmt.Errorf("step %g and stem_width %g must not be negative", c.Step, c.StemWidth)
	}
	for name, v := range map[string]string{
		"leaf_fill":   c.LeafFill,
		"leaf_stroke": c.LeafStroke,
		"stem_fill":   c.StemFill,
		"background":  c.Background,
	} {
		if _, err := ParseHexColor(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// CheckTrees reports whether trees is within [1, MaxTrees].
func (c *RenderConfig) CheckTrees(trees int) error {
	if trees < 1 {
		return fmt.Errorf("trees %d must be at least 1", trees)
	}
	if trees > c.MaxTrees {
		return fmt.Errorf("trees %d > max_trees %d: %w", trees, c.MaxTrees, ErrTreeLimit)
	}
	return nil
}

// CheckDepth reports whether depth is within [0, MaxDepth].
func (c *RenderConfig) CheckDepth(depth int) error {
	if depth < 0 {
		return fmt.Errorf("depth %d must not be negative", depth)
	}
	if depth > c.MaxDepth {
		return fmt.Errorf("depth %d > max_depth %d: %w", depth, c.MaxDepth, ErrDepthLimit)
	}
	return nil
}

// Turtle builds an interpreter from the config. The config must be valid.
func (c *RenderConfig) Turtle() *lsystemx.Turtle {
	t := lsystemx.NewTurtle()
	t.Angle = c.Angle
	t.Factor = c.Scale
	t.Step = c.Step
	t.StemWidth = c.StemWidth
	t.LeafFill, _ = ParseHexColor(c.LeafFill)
	t.LeafStroke, _ = ParseHexColor(c.LeafStroke)
	t.StemFill, _ = ParseHexColor(c.StemFill)
	return t
}

// BackgroundColor returns the parsed background. The config must be valid.
func (c *RenderConfig) BackgroundColor() color.RGBA {
	bg, _ := ParseHexColor(c.Background)
	return bg
}

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque colour.
func ParseHexColor(s string) (color.RGBA, error) {
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("colour %q: missing '#'", s)
	}
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// HexColor formats c as "#rrggbb", dropping alpha.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DecodeRenderConfig reads a YAML render config, rejecting unknown keys, and
// returns it with defaults applied and validated.
func DecodeRenderConfig(r io.Reader) (RenderConfig, error) {
	var c RenderConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return RenderConfig{}, fmt.Errorf("yaml decode: %w", err)
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return RenderConfig{}, err
	}
	return c, nil
}

// LoadRenderConfig reads a YAML render config from path.
func LoadRenderConfig(path string) (RenderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RenderConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := DecodeRenderConfig(bytes.NewReader(data))
	if err != nil {
		return RenderConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
