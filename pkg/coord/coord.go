// Package coord defines the spatial position passed to every node.
package coord

import "fmt"

// Coordinate is an immutable 3-component position. It is a value type;
// copy it freely.
type Coordinate struct {
	x, y, z float64
}

// New returns the coordinate (x, y, z).
func New(x, y, z float64) Coordinate {
	return Coordinate{x: x, y: y, z: z}
}

// NewXY returns the coordinate (x, y, 0).
func NewXY(x, y float64) Coordinate {
	return New(x, y, 0)
}

// NewX returns the coordinate (x, 0, 0).
func NewX(x float64) Coordinate {
	return NewXY(x, 0)
}

// X returns the first component.
func (c Coordinate) X() float64 { return c.x }

// Y returns the second component.
func (c Coordinate) Y() float64 { return c.y }

// Z returns the third component.
func (c Coordinate) Z() float64 { return c.z }

// Add returns the component-wise sum c + o.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return New(c.x+o.x, c.y+o.y, c.z+o.z)
}

// Mul returns the component-wise product c * o.
func (c Coordinate) Mul(o Coordinate) Coordinate {
	return New(c.x*o.x, c.y*o.y, c.z*o.z)
}

// Div returns the component-wise quotient c / o. A zero divisor component
// leaves the corresponding component of c unchanged.
func (c Coordinate) Div(o Coordinate) Coordinate {
	return New(safeDiv(c.x, o.x), safeDiv(c.y, o.y), safeDiv(c.z, o.z))
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return a
	}
	return a / b
}

// String formats the coordinate as "(x, y, z)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.x, c.y, c.z)
}
