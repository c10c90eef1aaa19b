package main

import (
	"fmt"
	"html"
	"strings"
)

const (
	svgBackground = "#0B0B10"
	svgLineColor  = "#F2F2F7"
	svgLineWidth  = 2.0
)

// RenderSVG paints one frame: the line plus every fragment scaled from the
// surface it was drawn on to width x height.
func RenderSVG(curve Curve, fragments []DrawingFragment, width, height float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatCoord(width), formatCoord(height), formatCoord(width), formatCoord(height))
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>`, svgBackground)
	sb.WriteByte('\n')

	if !curve.Empty() {
		fmt.Fprintf(&sb, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round"/>`,
			curve.Path(), svgLineColor, formatCoord(svgLineWidth))
		sb.WriteByte('\n')
	}

	for i, f := range fragments {
		writeFragment(&sb, i, f, width, height)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// writeFragment emits a fragment as a scaled group. Each eraser stroke wraps
// the ink drawn before it in a mask, so it removes earlier ink of the same
// fragment only and later strokes paint over the erased area.
func writeFragment(sb *strings.Builder, idx int, f DrawingFragment, width, height float64) {
	if f.Width <= 0 || f.Height <= 0 {
		return
	}

	var defs strings.Builder
	var ink strings.Builder
	for si, s := range f.Strokes {
		d := strokePath(s.Points)
		if d == "" {
			continue
		}
		if s.IsEraser {
			if ink.Len() == 0 {
				continue
			}
			maskID := fmt.Sprintf("erase-%d-%d", idx, si)
			fmt.Fprintf(&defs, `<mask id="%s" maskUnits="userSpaceOnUse" x="0" y="0" width="%s" height="%s">`,
				maskID, formatCoord(f.Width), formatCoord(f.Height))
			fmt.Fprintf(&defs, `<rect width="%s" height="%s" fill="white"/>`, formatCoord(f.Width), formatCoord(f.Height))
			fmt.Fprintf(&defs, `<path d="%s" fill="none" stroke="black" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`,
				d, formatCoord(s.StrokeWidth))
			defs.WriteString("</mask>")

			wrapped := fmt.Sprintf(`<g mask="url(#%s)">%s</g>`, maskID, ink.String())
			ink.Reset()
			ink.WriteString(wrapped)
			continue
		}
		fmt.Fprintf(&ink, `<path d="%s" fill="none" stroke="%s" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round"/>`,
			d, html.EscapeString(s.Color), formatCoord(s.StrokeWidth))
	}
	if ink.Len() == 0 {
		return
	}

	fmt.Fprintf(sb, `<g id="fragment-%s" data-frame="%d" transform="scale(%s %s)">`,
		html.EscapeString(f.ID), f.FrameNumber,
		formatScale(width/f.Width), formatScale(height/f.Height))
	if defs.Len() > 0 {
		sb.WriteString("<defs>")
		sb.WriteString(defs.String())
		sb.WriteString("</defs>")
	}
	sb.WriteString(ink.String())
	sb.WriteString("</g>\n")
}

// strokePath draws a polyline through points. A single point becomes a zero
// length segment, which round caps render as a dot.
func strokePath(points []StrokePoint) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("M ")
	writePoint(&sb, Point{X: points[0].X, Y: points[0].Y})
	if len(points) == 1 {
		sb.WriteString(" L ")
		writePoint(&sb, Point{X: points[0].X, Y: points[0].Y})
		return sb.String()
	}
	for _, p := range points[1:] {
		sb.WriteString(" L ")
		writePoint(&sb, Point{X: p.X, Y: p.Y})
	}
	return sb.String()
}

func formatScale(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
