package models

import "testing"

func sample() AOIRectangle {
	return AOIRectangle{
		Code: "A",
		Corners: [4]Corner{
			{Lon: 77.0, Lat: 14.0}, // TL
			{Lon: 78.0, Lat: 14.0}, // TR
			{Lon: 78.0, Lat: 13.0}, // BR
			{Lon: 77.0, Lat: 13.0}, // BL
		},
		Center: CenterPoint{Code: "A", Lat: 13.5, Lon: 77.5},
	}
}

func TestClosedRing(t *testing.T) {
	ring := sample().ClosedRing()
	if len(ring) != 5 {
		t.Fatalf("Expected 5 ring points, got %d", len(ring))
	}
	if ring[0] != ring[4] {
		t.Errorf("Ring not closed: first %v, last %v", ring[0], ring[4])
	}
}

func TestBounds(t *testing.T) {
	b := sample().Bounds()
	if b.BottomLeft.Lon != 77.0 || b.BottomLeft.Lat != 13.0 {
		t.Errorf("Wrong bottom-left corner: %v", b.BottomLeft)
	}
	if b.TopRight.Lon != 78.0 || b.TopRight.Lat != 14.0 {
		t.Errorf("Wrong top-right corner: %v", b.TopRight)
	}
}

func TestContains(t *testing.T) {
	aoi := sample()

	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{13.5, 77.5, true},  // center
		{13.0, 77.0, true},  // corner, boundary included
		{14.1, 77.5, false}, // north of the box
		{13.5, 76.9, false}, // west of the box
	}

	for _, c := range cases {
		if got := aoi.Contains(c.lat, c.lon); got != c.want {
			t.Errorf("Contains(%v, %v) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
