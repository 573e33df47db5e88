// Package field provides the scalar fields the renderer can draw.
//
// A field is a pure function f(x, y). The renderer draws the implicit curve
// f(x, y) = 0 by locating the cells where f changes sign. Fields may return
// NaN or ±Inf where they are undefined; such cells are shown as out of
// domain.
package field

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Func is a scalar field over the plane. It must be pure and safe to call
// from several goroutines at once.
type Func func(x, y float64) float64

// ErrUnknown is returned by Lookup for an unregistered name.
var ErrUnknown = errors.New("field: unknown function")

// Default is the name of the field drawn when none is configured.
const Default = "equart"

// Equart is the default field, a dense pattern of curves with poles along
// the axes.
func Equart(x, y float64) float64 {
	sx := math.Sin(x)
	return x/y/sx - x*y/sx - y*sx + x*math.Sin(y)
}

// Folium is x²/y + y²/x - 1/2.
func Folium(x, y float64) float64 {
	return x*x/y + y*y/x - 0.5
}

// Tangent is the graph y = tan(x).
func Tangent(x, y float64) float64 {
	return math.Tan(x) - y
}

// Circle is the circle of radius 5 around the origin.
func Circle(x, y float64) float64 {
	return x*x + y*y - 25
}

// Line is the nearly flat line y = x/1000.
func Line(x, y float64) float64 {
	return x/1000 - y
}

var registry = map[string]Func{
	"equart":  Equart,
	"folium":  Folium,
	"tangent": Tangent,
	"circle":  Circle,
	"line":    Line,
}

// Lookup returns the field registered under name.
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknown, name, Names())
	}
	return f, nil
}

// Names returns the registered field names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}
