package preview

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// drawLine draws a line between two points using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	for {
		setPixelSafe(img, x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawThickLine strokes a line width pixels wide by offsetting copies along
// the normal
func drawThickLine(img *image.RGBA, x1, y1, x2, y2, width int, c color.RGBA) {
	if width <= 1 {
		drawLine(img, x1, y1, x2, y2, c)
		return
	}
	length := math.Hypot(float64(x2-x1), float64(y2-y1))
	if length == 0 {
		fillCircle(img, x1, y1, width/2, c)
		return
	}
	nx := -float64(y2-y1) / length
	ny := float64(x2-x1) / length
	for i := -width / 2; i <= width/2; i++ {
		ox := int(math.Round(nx * float64(i)))
		oy := int(math.Round(ny * float64(i)))
		drawLine(img, x1+ox, y1+oy, x2+ox, y2+oy, c)
	}
}

// drawArrowHead draws a filled triangle pointing at (x, y) from (fromX, fromY)
func drawArrowHead(img *image.RGBA, fromX, fromY, x, y, size int, c color.RGBA) {
	angle := math.Atan2(float64(y-fromY), float64(x-fromX))
	spread := math.Pi / 7
	for s := 0; s <= size; s++ {
		for _, side := range []float64{-1, 1} {
			a := angle + math.Pi + side*spread
			px := x + int(math.Round(float64(s)*math.Cos(a)))
			py := y + int(math.Round(float64(s)*math.Sin(a)))
			drawLine(img, x, y, px, py, c)
		}
	}
}

// fillCircle paints a disc
func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				setPixelSafe(img, cx+dx, cy+dy, c)
			}
		}
	}
}

// drawRing draws a circle outline
func drawRing(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for angle := 0.0; angle < 360; angle += 0.5 {
		rad := angle * math.Pi / 180
		px := cx + int(math.Round(float64(radius)*math.Cos(rad)))
		py := cy + int(math.Round(float64(radius)*math.Sin(rad)))
		setPixelSafe(img, px, py, c)
		setPixelSafe(img, px+1, py, c)
		setPixelSafe(img, px, py+1, c)
	}
}

func setPixelSafe(img *image.RGBA, x, y int, c color.RGBA) {
	bounds := img.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		img.SetRGBA(x, y, c)
	}
}

// parseHex reads #RRGGBB. Anything else yields fallback.
func parseHex(s string, fallback color.RGBA) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fallback
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// darken scales each channel towards black
func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
