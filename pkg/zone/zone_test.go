package zone

import (
	"testing"

	"print-preflight/models"
)

var allZones = []models.VisualZone{
	models.ZoneTopLeft, models.ZoneTopCenter, models.ZoneTopRight,
	models.ZoneMiddleLeft, models.ZoneCenter, models.ZoneMiddleRight,
	models.ZoneBottomLeft, models.ZoneBottomCenter, models.ZoneBottomRight,
	models.ZoneFullPage,
}

func TestMap_ContainedInUnitPage(t *testing.T) {
	for _, z := range allZones {
		r, ok := Map(z)
		if !ok {
			t.Errorf("Map(%q) not found", z)
			continue
		}
		if r.X < 0 || r.Y < 0 || r.W <= 0 || r.H <= 0 {
			t.Errorf("Map(%q) = %+v, negative or empty", z, r)
		}
		if r.X+r.W > 1.0000001 || r.Y+r.H > 1.0000001 {
			t.Errorf("Map(%q) = %+v, extends past the unit page", z, r)
		}
	}
}

func TestMap_GridCellsDisjoint(t *testing.T) {
	cells := allZones[:9] // everything but FULL_PAGE
	for i, a := range cells {
		ra, _ := Map(a)
		for _, b := range cells[i+1:] {
			rb, _ := Map(b)
			if overlaps(ra, rb) {
				t.Errorf("zones %q and %q overlap: %+v vs %+v", a, b, ra, rb)
			}
		}
	}
}

func overlaps(a, b Rect) bool {
	const eps = 1e-9
	return a.X+a.W > b.X+eps && b.X+b.W > a.X+eps &&
		a.Y+a.H > b.Y+eps && b.Y+b.H > a.Y+eps
}

func TestMap_FullPage(t *testing.T) {
	r, ok := Map(models.ZoneFullPage)
	if !ok {
		t.Fatal("Map(FULL_PAGE) not found")
	}
	if r != (Rect{X: 0, Y: 0, W: 1, H: 1}) {
		t.Errorf("Map(FULL_PAGE) = %+v, want unit rect", r)
	}
}

func TestMap_UnknownOrAbsent(t *testing.T) {
	for _, z := range []models.VisualZone{"", "CENTRE", "TOP", "full_page"} {
		if r, ok := Map(z); ok {
			t.Errorf("Map(%q) = %+v, want no overlay", z, r)
		}
	}
}

func TestMap_Idempotent(t *testing.T) {
	for _, z := range allZones {
		first, _ := Map(z)
		for i := 0; i < 3; i++ {
			again, _ := Map(z)
			if again != first {
				t.Errorf("Map(%q) changed between calls: %+v vs %+v", z, first, again)
			}
		}
	}
}

func TestProject(t *testing.T) {
	r, _ := Map(models.ZoneCenter)
	px := Project(r, 900, 1200)
	if px.X != 300 || px.Y != 400 || px.W != 300 || px.H != 400 {
		t.Errorf("Project(CENTER, 900x1200) = %+v", px)
	}

	full, _ := Map(models.ZoneFullPage)
	px = Project(full, 850, 1100)
	if px != (PixelRect{X: 0, Y: 0, W: 850, H: 1100}) {
		t.Errorf("Project(FULL_PAGE, 850x1100) = %+v", px)
	}
}
