// Package city provides the block grid, room table, and planar geometry the
// simulation moves agents through. Tiles are square; every tiles-per-block-th
// row and column is a road, the remaining tiles hold apartment buildings.
package city

import "fmt"

// Coord is an integer tile coordinate on the city grid.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns c + d.
func (c Coord) Add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// Sub returns the offset from d to c.
func (c Coord) Sub(d Coord) Coord {
	return Coord{X: c.X - d.X, Y: c.Y - d.Y}
}

// Manhattan returns the L1 distance between two tile coordinates.
func (c Coord) Manhattan(o Coord) int {
	return absInt(c.X-o.X) + absInt(c.Y-o.Y)
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Vec2 is a continuous position or direction in world units.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Cardinal unit headings.
var (
	East  = Vec2{X: 1}
	West  = Vec2{X: -1}
	North = Vec2{Y: 1}
	South = Vec2{Y: -1}
)

// Rect is an axis-aligned rectangle in world units.
type Rect struct {
	MinX float64 `json:"min_x" yaml:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y"`
}

// Min returns the lower-left corner.
func (r Rect) Min() Vec2 {
	return Vec2{X: r.MinX, Y: r.MinY}
}

// Width returns the extent along x.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the extent along y.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
