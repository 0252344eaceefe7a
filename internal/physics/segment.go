package physics

// Segment is a line segment between two points.
type Segment struct {
	P1, P2 Point
}

// SegmentsIntersect reports whether two open segments cross. Endpoints are
// excluded, so segments that only touch at an end do not intersect.
//
// Parallel and collinear segments (zero determinant) always report false,
// even when they overlap.
func SegmentsIntersect(a, b Segment) bool {
	da := a.P2.Sub(a.P1)
	db := b.P2.Sub(b.P1)

	det := da.Cross(db)
	if det == 0 {
		return false
	}

	w := b.P2.Sub(a.P1)
	lambda := w.Cross(db) / det
	gamma := da.Cross(w) / det
	return (0 < lambda && lambda < 1) && (0 < gamma && gamma < 1)
}
