package geom

// Segment is a line segment from A to B.
type Segment struct {
	A, B Vec2
}

// Seg builds a segment from two endpoints.
func Seg(a, b Vec2) Segment { return Segment{A: a, B: b} }

// Hit describes where a moving segment crossed a target segment.
type Hit struct {
	Point  Vec2
	Normal Vec2 // normal of the target segment
}

// Len returns the segment length.
func (s Segment) Len() float64 { return s.B.Sub(s.A).Len() }

// Normal is the direction A->B rotated 90 degrees counter-clockwise,
// (-dy, dx), at unit length. A zero-length segment has a zero normal.
//
// For a guard segment running from ArcPoint(angle+size) to ArcPoint(angle)
// this normal points toward the arena center.
func (s Segment) Normal() Vec2 {
	d := s.B.Sub(s.A).Normalize()
	return Vec2{-d.Y, d.X}
}

// Intersect tests s against target. On a crossing it returns the crossing
// point together with target's normal. Parallel, collinear and zero-length
// segments never intersect.
func (s Segment) Intersect(target Segment) (Hit, bool) {
	d1 := s.B.Sub(s.A)
	d2 := target.B.Sub(target.A)

	denom := d2.Y*d1.X - d2.X*d1.Y
	if denom == 0 {
		return Hit{}, false
	}

	off := s.A.Sub(target.A)
	ua := (d2.X*off.Y - d2.Y*off.X) / denom
	ub := (d1.X*off.Y - d1.Y*off.X) / denom
	if ua < 0 || ua > 1 || ub < 0 || ub > 1 {
		return Hit{}, false
	}

	return Hit{
		Point:  s.A.Add(d1.Scale(ua)),
		Normal: target.Normal(),
	}, true
}

// ClosestPoint returns the point on s nearest to p.
func (s Segment) ClosestPoint(p Vec2) Vec2 {
	d := s.B.Sub(s.A)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return s.A
	}
	t := Clamp(p.Sub(s.A).Dot(d)/lenSq, 0, 1)
	return s.A.Add(d.Scale(t))
}

// CircleTouchesSegment reports whether a circle comes within radius of seg.
// Degenerate input (zero-length segment, non-positive radius) never touches.
func CircleTouchesSegment(center Vec2, radius float64, seg Segment) bool {
	if radius <= 0 || seg.A == seg.B {
		return false
	}
	return center.Sub(seg.ClosestPoint(center)).Len() <= radius
}
