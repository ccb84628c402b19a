// Package render provides markdown rendering and color themes for terminal output.
package render

import (
	"os"

	"github.com/diogo/groqchat/internal/config"
)

// EnvStyle overrides the markdown style, following glamour's convention
const EnvStyle = "GLAMOUR_STYLE"

// Options configures the markdown renderer. It is comparable and used
// directly as the renderer pool key.
type Options struct {
	// Width defines the maximum output width (default: 80)
	Width int

	// Style is a glamour style name or a path to a JSON style file
	Style string

	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
	InlineTableLinks bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return OptionsFromMarkdown(config.DefaultMarkdownConfig(), 80)
}

// OptionsFromMarkdown converts the user's markdown settings.
// GLAMOUR_STYLE takes precedence over the configured style.
func OptionsFromMarkdown(md config.MarkdownConfig, width int) Options {
	opts := Options{
		Width:            width,
		Style:            md.Style,
		EnableEmoji:      md.EnableEmoji,
		PreserveNewLines: md.PreserveNewLines,
		TableWrap:        md.TableWrap,
		InlineTableLinks: md.InlineTableLinks,
	}
	if opts.Style == "" {
		opts.Style = ThemeDark
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if style := os.Getenv(EnvStyle); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
