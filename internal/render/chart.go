package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	colWhite   = color.RGBA{255, 255, 255, 255}
	colInk     = color.RGBA{40, 40, 40, 255}
	colGrid    = color.RGBA{220, 220, 220, 255}
	colAxis    = color.RGBA{120, 120, 120, 255}
	colNeutral = color.RGBA{52, 152, 219, 255}

	priorityColors = map[string]color.RGBA{
		"Low":     {52, 152, 219, 255},
		"Medium":  {243, 156, 18, 255},
		"High":    {231, 76, 60, 255},
		"Urgent":  {142, 68, 173, 255},
		"Unknown": {127, 140, 141, 255},
	}
	statusColors = map[string]color.RGBA{
		"Open":    {230, 126, 34, 255},
		"Closed":  {39, 174, 96, 255},
		"Pending": {41, 128, 185, 255},
		"Unknown": {127, 140, 141, 255},
	}
)

func priorityColor(p string) color.RGBA {
	if c, ok := priorityColors[p]; ok {
		return c
	}
	return priorityColors["Unknown"]
}

func statusColor(s string) color.RGBA {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return statusColors["Unknown"]
}

const (
	glyphW     = 7  // basicfont.Face7x13 advance
	glyphH     = 13
	marginTop  = 50
	marginSide = 30
)

func newCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{colWhite}, image.Point{}, draw.Src)
	return img
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	draw.Draw(img, image.Rect(x0, y0, x1, y1), &image.Uniform{c}, image.Point{}, draw.Src)
}

// drawLine is a plain Bresenham segment, used by the time-series chart.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawMarker(img *image.RGBA, x, y, r int, c color.Color) {
	fillRect(img, x-r, y-r, x+r+1, y+r+1, c)
}

// drawLabel renders s with its baseline anchored so the text's top-left sits
// at (x, y).
func drawLabel(img *image.RGBA, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{c},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y+basicfont.Face7x13.Ascent),
	}
	d.DrawString(s)
}

func labelWidth(s string) int { return len(s) * glyphW }

// truncateLabel keeps long account names inside the chart margin.
func truncateLabel(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
