package physics

// Dimensions describe a car rectangle relative to its pivot. The pivot need
// not be the geometric centre: front and rear offsets are independent.
type Dimensions struct {
	HalfWidth   float64
	FrontOffset float64 // Pivot to front bumper
	RearOffset  float64 // Pivot to rear bumper
}

// BoundingBox is the oriented rectangle of a car for one pose.
// All corners and edges come from the same pose; rebuild it whenever the pose changes.
type BoundingBox struct {
	FrontLeft, FrontRight Point
	BackLeft, BackRight   Point

	Front, Left, Right, Back Segment
}

// NewBoundingBox computes the corners and edges of a car rectangle at pose p.
func NewBoundingBox(p Pose, d Dimensions) BoundingBox {
	h := p.Heading
	hw, front, rear := d.HalfWidth, d.FrontOffset, d.RearOffset

	br := Point{
		X: p.X + RotateProject(hw, -rear, h),
		Y: p.Y + RotateProject(rear, hw, h),
	}
	bl := Point{
		X: p.X + RotateProject(-hw, -rear, h),
		Y: p.Y + RotateProject(rear, -hw, h),
	}
	fl := Point{
		X: p.X + RotateProject(-hw, front, h),
		Y: p.Y + RotateProject(-front, -hw, h),
	}
	fr := Point{
		X: p.X + RotateProject(hw, front, h),
		Y: p.Y + RotateProject(-front, hw, h),
	}

	return BoundingBox{
		FrontLeft:  fl,
		FrontRight: fr,
		BackLeft:   bl,
		BackRight:  br,
		Front:      Segment{P1: fl, P2: fr},
		Left:       Segment{P1: fl, P2: bl},
		Right:      Segment{P1: fr, P2: br},
		Back:       Segment{P1: br, P2: bl},
	}
}

// Edges returns the edges in front, left, right, back order.
func (b BoundingBox) Edges() [4]Segment {
	return [4]Segment{b.Front, b.Left, b.Right, b.Back}
}

// Corners returns the corners in polygon order (clockwise on screen).
func (b BoundingBox) Corners() [4]Point {
	return [4]Point{b.FrontLeft, b.FrontRight, b.BackRight, b.BackLeft}
}
