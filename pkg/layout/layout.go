// Package layout computes the geometry of diverging stacked bars.
//
// A diverging bar lays its five response buckets end to end along the x
// axis and shifts the whole bar so that one designated bucket is centered on
// zero. Low responses then extend to the left and high responses to the
// right, whatever the two sides add up to.
package layout

import "fmt"

// Buckets is the number of ordinal response buckets per bar.
const Buckets = 5

// Neutral is the index of the middle bucket.
const Neutral = Buckets / 2

// Segment is one drawn piece of a bar.
type Segment struct {
	Offset float64 // left edge
	Width  float64
}

// End returns the right edge of the segment.
func (s Segment) End() float64 { return s.Offset + s.Width }

// Mid returns the horizontal midpoint of the segment.
func (s Segment) Mid() float64 { return s.Offset + s.Width/2 }

// Center lays out p as contiguous segments such that segment center has
// its midpoint at zero. The first offset is
//
//	-(p[0] + ... + p[center-1] + p[center]/2)
//
// and every following segment starts where the previous one ends, so the
// widths sum to the row total.
//
// Center panics if center is not a valid bucket index.
func Center(p [Buckets]float64, center int) [Buckets]Segment {
	if center < 0 || center >= Buckets {
		panic(fmt.Sprintf("layout: center index %d out of range [0, %d)", center, Buckets))
	}

	before := 0.0
	for _, v := range p[:center] {
		before += v
	}

	var segs [Buckets]Segment
	x := -(before + p[center]/2)
	for i, v := range p {
		segs[i] = Segment{Offset: x, Width: v}
		x += v
	}
	// Pin the centered bucket so its midpoint is exactly zero despite
	// rounding in the running sum.
	segs[center].Offset = -p[center] / 2
	return segs
}

// Rows applies [Center] to every row.
func Rows(rows [][Buckets]float64, center int) [][Buckets]Segment {
	out := make([][Buckets]Segment, len(rows))
	for i, r := range rows {
		out[i] = Center(r, center)
	}
	return out
}

// Extent returns the leftmost and rightmost x covered by any row.
func Extent(rows [][Buckets]Segment) (lo, hi float64) {
	for i, r := range rows {
		if i == 0 || r[0].Offset < lo {
			lo = r[0].Offset
		}
		if end := r[Buckets-1].End(); i == 0 || end > hi {
			hi = end
		}
	}
	return lo, hi
}
