package lakes

import (
	"testing"
)

func sample() []Lake {
	return []Lake{
		{Name: "Weelngk", Type: "freshwater", Bounds: [4]float64{145.0, -37.0, 145.5, -36.5}},
		{Name: "Corangamite", Type: "saline", Bounds: [4]float64{143.3, -38.4, 143.6, -38.0}},
	}
}

func TestFindCaseInsensitive(t *testing.T) {
	l, ok := Find(sample(), "weelngk")
	if !ok || l.Name != "Weelngk" {
		t.Errorf("got %v, %v", l, ok)
	}
	if _, ok := Find(sample(), "missing"); ok {
		t.Error("found a lake that does not exist")
	}
}

func TestRegionPadsBounds(t *testing.T) {
	l, _ := Find(sample(), "Corangamite")
	got := Region(l, 0.1)
	want := [4]float64{143.2, -38.5, 143.7, -37.9}
	for i := range want {
		if diff := got[i] - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("bound %d = %v, want %v", i, got[i], want[i])
		}
	}
}
