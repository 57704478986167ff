// Package geom holds the 2D vector and axis-aligned rectangle math shared by
// every simulation package. World space has its origin at the bottom-left and
// y grows upward.
package geom

import "math"

// Vec2 is a 2D point or direction.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dst returns the Euclidean distance between v and o.
func (v Vec2) Dst(o Vec2) float64 { return v.Sub(o).Len() }

// IsZero reports whether v is the zero vector.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Nor returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec2) Nor() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp moves v toward target by fraction alpha.
func (v Vec2) Lerp(target Vec2, alpha float64) Vec2 {
	return Vec2{v.X + (target.X-v.X)*alpha, v.Y + (target.Y-v.Y)*alpha}
}

// AxisDominant returns the unit vector along whichever axis of v has the
// larger magnitude. Ties resolve to the vertical axis.
func (v Vec2) AxisDominant() Vec2 {
	switch {
	case v.IsZero():
		return Vec2{}
	case math.Abs(v.X) > math.Abs(v.Y):
		return Vec2{math.Copysign(1, v.X), 0}
	default:
		return Vec2{0, math.Copysign(1, v.Y)}
	}
}

// Rect is an axis-aligned rectangle anchored at its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAround returns a w by h rectangle centred on c.
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Center returns the centre point of r.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Overlaps reports whether r and o share interior area. Touching edges do
// not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Expand grows r by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, W: r.W + 2*pad, H: r.H + 2*pad}
}

// Inset shrinks r by pad on every side.
func (r Rect) Inset(pad float64) Rect {
	return r.Expand(-pad)
}

// ClampCenter returns c moved so that a w by h rectangle centred on it stays
// inside r.
func (r Rect) ClampCenter(c Vec2, w, h float64) Vec2 {
	return Vec2{
		X: clamp(c.X, r.X+w/2, r.X+r.W-w/2),
		Y: clamp(c.Y, r.Y+h/2, r.Y+r.H-h/2),
	}
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
