package node

import (
	"github.com/matzehuels/proctex/pkg/value"
)

// Default presentation size of a node box.
const (
	DefaultWidth  = 120
	DefaultHeight = 48
)

// Info is presentation metadata read by editors and graph views.
// It never influences evaluation.
type Info struct {
	Name   string      `json:"name"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Color  value.Pixel `json:"color"`
}

// DefaultInfo returns metadata for a freshly added node of the given kind.
func DefaultInfo(n Node) Info {
	info := Info{
		Name:   n.Kind(),
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Color:  value.Gray(200),
	}
	if n.IsOutput() {
		info.Color = value.NewPixel(90, 160, 220, 255)
	}
	return info
}

// Contains reports whether the point (x, y) falls inside the node box.
func (i Info) Contains(x, y float64) bool {
	return x >= i.X && x < i.X+i.Width && y >= i.Y && y < i.Y+i.Height
}
