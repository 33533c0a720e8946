package pipeline

import (
	"github.com/matzehuels/proctex/pkg/errors"
	"github.com/matzehuels/proctex/pkg/render"
	"github.com/matzehuels/proctex/pkg/surface"
)

// Encode writes s in every requested format.
func Encode(s *surface.Surface, formats []string, scale int) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if _, done := artifacts[format]; done {
			continue
		}
		data, err := render.Encode(s, format, scale)
		if err != nil {
			return nil, errors.Annotate(err, "encode %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
