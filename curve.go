package main

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// SegmentKind distinguishes the two SVG curve commands a Curve uses.
type SegmentKind int

const (
	// QuadraticSegment is an explicit "Q" command.
	QuadraticSegment SegmentKind = iota
	// SmoothSegment is a "T" command; its control point is implied by the
	// previous segment.
	SmoothSegment
)

// Segment is one piece of a Curve. For smooth segments Control holds the
// implied control point so callers can evaluate the curve without replaying
// SVG rules.
type Segment struct {
	Kind    SegmentKind
	Control Point
	End     Point
}

// Curve is a single continuous stroke starting at Start.
type Curve struct {
	Start    Point
	Segments []Segment
}

// BuildCurve threads a curve through points using quadratic segments that
// end at the midpoints between neighbours, which keeps the tangent continuous
// at every interior point. Fewer than two points yield an empty curve.
func BuildCurve(points []Point) Curve {
	if len(points) < 2 {
		return Curve{}
	}

	c := Curve{
		Start:    points[0],
		Segments: make([]Segment, 0, len(points)-1),
	}

	prevControl := points[0]
	cur := points[0]
	for i := 1; i < len(points)-1; i++ {
		mid := r2.Scale(0.5, r2.Add(points[i], points[i+1]))
		c.Segments = append(c.Segments, Segment{Kind: QuadraticSegment, Control: points[i], End: mid})
		prevControl, cur = points[i], mid
	}

	// Reflection of the previous control point, or the current point when the
	// curve has no quadratic segment yet.
	control := cur
	if len(c.Segments) > 0 {
		control = r2.Sub(r2.Scale(2, cur), prevControl)
	}
	c.Segments = append(c.Segments, Segment{Kind: SmoothSegment, Control: control, End: points[len(points)-1]})

	return c
}

// Empty reports whether the curve has nothing to draw.
func (c Curve) Empty() bool {
	return len(c.Segments) == 0
}

// Path formats the curve as SVG path data with one decimal place.
func (c Curve) Path() string {
	if c.Empty() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("M ")
	writePoint(&sb, c.Start)
	for _, seg := range c.Segments {
		switch seg.Kind {
		case QuadraticSegment:
			sb.WriteString(" Q ")
			writePoint(&sb, seg.Control)
			sb.WriteByte(' ')
			writePoint(&sb, seg.End)
		case SmoothSegment:
			sb.WriteString(" T ")
			writePoint(&sb, seg.End)
		}
	}
	return sb.String()
}

// Flatten samples the curve with steps points per segment, including the
// start point and every segment end.
func (c Curve) Flatten(steps int) []Point {
	if c.Empty() {
		return nil
	}
	if steps < 1 {
		steps = 1
	}

	out := make([]Point, 0, len(c.Segments)*steps+1)
	out = append(out, c.Start)
	from := c.Start
	for _, seg := range c.Segments {
		for s := 1; s <= steps; s++ {
			out = append(out, quadAt(from, seg.Control, seg.End, float64(s)/float64(steps)))
		}
		from = seg.End
	}
	return out
}

func quadAt(p0, p1, p2 Point, t float64) Point {
	u := 1 - t
	return r2.Add(r2.Add(r2.Scale(u*u, p0), r2.Scale(2*u*t, p1)), r2.Scale(t*t, p2))
}

func writePoint(sb *strings.Builder, p Point) {
	sb.WriteString(formatCoord(p.X))
	sb.WriteByte(' ')
	sb.WriteString(formatCoord(p.Y))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
