package geo

import (
	"testing"
)

func TestPointDistanceToLine(t *testing.T) {
	p1 := &Point{0, 0}
	p2 := &Point{100, 0}

	p := &Point{50, 70}

	d := p.DistanceToLine(p1, p2)

	if d != 70.0 {
		t.Fatalf("Expected 70.0 and got %v", d)
	}
}

func TestAddVector(t *testing.T) {
	start := &Point{1.5, 5.3}
	c := NewVector(-3.5, -2.3)
	p2 := start.AddVector(c)

	if p2.X != -2 || p2.Y != 3 {
		t.Fatalf("Expected resulting point to be (-2, 3), got %+v", p2)
	}
}

func TestInterpolate(t *testing.T) {
	a := NewPoint(0, 0)
	b := NewPoint(100, 50)

	mid := a.Interpolate(b, 0.5)
	if mid.X != 50 || mid.Y != 25 {
		t.Fatalf("Expected midpoint (50, 25), got %v", mid.ToString())
	}

	if !a.Interpolate(b, 0).Equals(a) {
		t.Fatal("Expected t=0 to return the start point")
	}
	if !a.Interpolate(b, 1).Equals(b) {
		t.Fatal("Expected t=1 to return the end point")
	}
}

func TestIntersectionPoint(t *testing.T) {
	// crossing segments
	p := IntersectionPoint(
		&Point{0, 0}, &Point{10, 10},
		&Point{0, 10}, &Point{10, 0},
	)
	if p == nil {
		t.Fatal("Expected an intersection")
	}
	if p.X != 5 || p.Y != 5 {
		t.Fatalf("Expected intersection at (5, 5), got %v", p.ToString())
	}

	// parallel segments
	p = IntersectionPoint(
		&Point{0, 0}, &Point{10, 0},
		&Point{0, 5}, &Point{10, 5},
	)
	if p != nil {
		t.Fatalf("Expected no intersection, got %v", p.ToString())
	}

	// segments whose lines cross outside the segments
	p = IntersectionPoint(
		&Point{0, 0}, &Point{1, 1},
		&Point{10, 0}, &Point{10, 5},
	)
	if p != nil {
		t.Fatalf("Expected no intersection, got %v", p.ToString())
	}
}
