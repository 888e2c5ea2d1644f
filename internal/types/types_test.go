// README: Unit tests for shared value types.
package types

import (
	"math"
	"testing"
)

func TestPointValid_Normal(t *testing.T) {
	p := Point{Lat: 25.0330, Lng: 121.5654}
	if !p.Valid() {
		t.Fatalf("expected valid point, got invalid")
	}
}

func TestPointValid_ZeroIsUnset(t *testing.T) {
	if (Point{}).Valid() {
		t.Fatalf("zero point should be treated as unset")
	}
}

func TestPointValid_OutOfRange(t *testing.T) {
	cases := []Point{
		{Lat: 91, Lng: 0.1},
		{Lat: -91, Lng: 0.1},
		{Lat: 0.1, Lng: 181},
		{Lat: 0.1, Lng: -181},
	}
	for _, p := range cases {
		if p.Valid() {
			t.Errorf("expected %+v to be invalid", p)
		}
	}
}

func TestDistanceKm_SamePoint(t *testing.T) {
	p := Point{Lat: 25.0330, Lng: 121.5654}
	if d := DistanceKm(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceKm_KnownPair(t *testing.T) {
	// Taipei 101 to Taipei Main Station is roughly 3.6 km great-circle.
	a := Point{Lat: 25.0330, Lng: 121.5654}
	b := Point{Lat: 25.0478, Lng: 121.5170}
	d := DistanceKm(a, b)
	if d < 3.0 || d > 6.0 {
		t.Fatalf("expected roughly 3.6-5 km, got %f", d)
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Lat: 25.0330, Lng: 121.5654}
	b := Point{Lat: 24.9, Lng: 121.2}
	if math.Abs(DistanceKm(a, b)-DistanceKm(b, a)) > 1e-9 {
		t.Fatalf("distance should be symmetric")
	}
}
