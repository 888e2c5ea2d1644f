// README: Zone geometry; point-in-polygon containment with centroid fallback.
package fleet

import (
	"github.com/golang/geo/s2"

	"gocars/internal/types"
)

// zoneIndex precomputes s2 loops so containment tests during a pass are cheap.
type zoneIndex struct {
	zones []Zone
	loops []*s2.Loop // nil where the zone has no usable polygon
}

func newZoneIndex(zones []Zone) *zoneIndex {
	idx := &zoneIndex{zones: zones, loops: make([]*s2.Loop, len(zones))}
	for i, z := range zones {
		if len(z.Polygon) < 3 {
			continue
		}
		pts := make([]s2.Point, len(z.Polygon))
		for j, v := range z.Polygon {
			pts[j] = s2.PointFromLatLng(s2.LatLngFromDegrees(v.Lat, v.Lng))
		}
		loop := s2.LoopFromPoints(pts)
		// Loops must enclose the smaller of the two regions they bound;
		// operator polygons arrive in either winding order.
		if !loop.IsNormalized() {
			loop.Invert()
		}
		idx.loops[i] = loop
	}
	return idx
}

// assign returns the index of the zone containing p. Polygon containment wins;
// a point inside no polygon falls back to the nearest centroid, so every
// driver counts somewhere. Returns -1 only when there are no zones.
func (idx *zoneIndex) assign(p types.Point) int {
	pt := s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
	for i, loop := range idx.loops {
		if loop != nil && loop.ContainsPoint(pt) {
			return i
		}
	}

	best, bestDist := -1, 0.0
	for i, z := range idx.zones {
		d := types.DistanceKm(p, z.Centroid)
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
