package pipeline

import (
	"fmt"

	"github.com/lineascope/lineascope/pkg/lineage/layout"
	"github.com/lineascope/lineascope/pkg/render/nodelink"
	"github.com/lineascope/lineascope/pkg/render/svg"
)

// Render generates output artifacts in the requested formats.
func Render(l *layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(l, buildSVGOptions(opts)...)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(l.Graph(), nodelink.Options{Columns: true}))
		case FormatJSON:
			data, err = MarshalLayout(Snapshot(l))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options from pipeline options.
func buildSVGOptions(opts Options) []svg.Option {
	var svgOpts []svg.Option
	switch opts.Theme {
	case ThemeDark:
		svgOpts = append(svgOpts, svg.WithTheme(svg.DarkTheme))
	case ThemeLight:
		svgOpts = append(svgOpts, svg.WithTheme(svg.DefaultTheme))
	}
	if opts.Selection != nil {
		svgOpts = append(svgOpts, svg.WithSelection(opts.Selection))
	}
	return svgOpts
}
