// Package geom holds the 2D vector and segment math shared by the arena
// server and the reconciling client.
package geom

import "math"

// Vec2 is a point or direction in arena space. The origin is the arena center.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. The zero vector stays zero.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// MoveTowards steps v toward target by at most maxStep and lands exactly on
// target once it is within reach.
func (v Vec2) MoveTowards(target Vec2, maxStep float64) Vec2 {
	if maxStep < 0 {
		maxStep = 0
	}
	delta := target.Sub(v)
	dist := delta.Len()
	if dist == 0 || dist <= maxStep {
		return target
	}
	return v.Add(delta.Scale(maxStep / dist))
}

// Reflect mirrors direction d about the unit normal n: d - 2(d.n)n.
func Reflect(d, n Vec2) Vec2 {
	return d.Sub(n.Scale(2 * d.Dot(n)))
}

// ArcPoint returns the point at the given angle on a circle of radius r.
// Angles run clockwise from +Y: ArcPoint(0, r) is (0, r).
func ArcPoint(angle, r float64) Vec2 {
	return Vec2{math.Sin(angle) * r, math.Cos(angle) * r}
}
