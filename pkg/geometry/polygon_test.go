package geometry

import "testing"

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	concave := []Point2D{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 5, Y: 5}, {X: 0, Y: 10}}

	tests := []struct {
		name string
		poly []Point2D
		p    Point2D
		want bool
	}{
		{"square center", square, Point2D{X: 5, Y: 5}, true},
		{"square outside", square, Point2D{X: 15, Y: 5}, false},
		{"square above", square, Point2D{X: 5, Y: 11}, false},
		{"concave notch", concave, Point2D{X: 5, Y: 8}, false},
		{"concave lobe", concave, Point2D{X: 2, Y: 5}, true},
		{"degenerate", square[:2], Point2D{X: 5, Y: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.p, tt.poly); got != tt.want {
				t.Errorf("PointInPolygon(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}
