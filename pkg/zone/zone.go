// Package zone maps a report's visual zone onto a normalized overlay
// rectangle. The page is divided into a 3x3 grid; FULL_PAGE covers the whole
// page. Coordinates are fractional (origin top-left, unit square) so the
// mapping is independent of rendered pixel dimensions.
package zone

import "print-preflight/models"

// Rect is a normalized rectangle with coordinates in the [0,1] range.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

const third = 1.0 / 3.0

var grid = map[models.VisualZone]Rect{
	models.ZoneTopLeft:      {X: 0, Y: 0, W: third, H: third},
	models.ZoneTopCenter:    {X: third, Y: 0, W: third, H: third},
	models.ZoneTopRight:     {X: 2 * third, Y: 0, W: third, H: third},
	models.ZoneMiddleLeft:   {X: 0, Y: third, W: third, H: third},
	models.ZoneCenter:       {X: third, Y: third, W: third, H: third},
	models.ZoneMiddleRight:  {X: 2 * third, Y: third, W: third, H: third},
	models.ZoneBottomLeft:   {X: 0, Y: 2 * third, W: third, H: third},
	models.ZoneBottomCenter: {X: third, Y: 2 * third, W: third, H: third},
	models.ZoneBottomRight:  {X: 2 * third, Y: 2 * third, W: third, H: third},
	models.ZoneFullPage:     {X: 0, Y: 0, W: 1, H: 1},
}

// Map returns the overlay rectangle for a zone. The second return value is
// false for an absent or unrecognized zone, meaning "no overlay shown".
// Pure function: same zone in, same rectangle out.
func Map(v models.VisualZone) (Rect, bool) {
	r, ok := grid[v]
	return r, ok
}

// PixelRect is a rectangle in rendered pixel coordinates.
type PixelRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Project scales a normalized rectangle to the current page's displayed
// bounds. Applied at render time; the fractional mapping itself never
// depends on pixel dimensions.
func Project(r Rect, width, height int) PixelRect {
	return PixelRect{
		X: int(r.X * float64(width)),
		Y: int(r.Y * float64(height)),
		W: int(r.W * float64(width)),
		H: int(r.H * float64(height)),
	}
}
