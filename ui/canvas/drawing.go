package canvas

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"nadebook/internal/sketch"
	"nadebook/internal/spot"
	"nadebook/pkg/geometry"
)

// letterPatterns contains 3x5 pixel patterns for letters A-Z.
// Each letter is represented as 5 rows of 3 bits.
var letterPatterns = map[rune][5]uint8{
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'B': {0b110, 0b101, 0b110, 0b101, 0b110},
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'F': {0b111, 0b100, 0b110, 0b100, 0b100},
	'G': {0b011, 0b100, 0b101, 0b101, 0b011},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'I': {0b111, 0b010, 0b010, 0b010, 0b111},
	'J': {0b001, 0b001, 0b001, 0b101, 0b010},
	'K': {0b101, 0b101, 0b110, 0b101, 0b101},
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'O': {0b010, 0b101, 0b101, 0b101, 0b010},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'Q': {0b010, 0b101, 0b101, 0b111, 0b011},
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'S': {0b011, 0b100, 0b010, 0b001, 0b110},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'W': {0b101, 0b101, 0b101, 0b111, 0b101},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'Z': {0b111, 0b001, 0b010, 0b100, 0b111},
}

// getCharPattern returns the 3x5 pixel pattern for a character.
// Returns a zero pattern for unsupported characters.
func getCharPattern(ch rune) [5]uint8 {
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

var backgroundFill = color.RGBA{R: 0x16, G: 0x18, B: 0x1C, A: 0xFF}

// draw is the raster drawing function. It renders bottom-up: radar image,
// finalized strokes, the live stroke, then markers.
func (v *MapViewport) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = backgroundFill.R
		output.Pix[i+1] = backgroundFill.G
		output.Pix[i+2] = backgroundFill.B
		output.Pix[i+3] = 0xFF
	}

	if v.background == nil {
		return output
	}

	v.drawBackground(output)

	for _, s := range v.strokes {
		v.drawStroke(output, s)
	}
	if live := v.capture.Live(); live != nil {
		v.drawStroke(output, *live)
	}

	for _, sp := range v.spots {
		v.drawMarker(output, sp)
	}
	return output
}

// drawBackground scales the radar image onto the output at the current
// stage offset and effective scale. The scaler clips to the destination,
// so only the visible region is resampled.
func (v *MapViewport) drawBackground(output *image.RGBA) {
	mapPx := v.params.NativeSize * v.params.EffectiveScale(v.state)
	dst := image.Rect(
		int(v.state.Stage.X),
		int(v.state.Stage.Y),
		int(v.state.Stage.X+mapPx),
		int(v.state.Stage.Y+mapPx),
	)
	xdraw.ApproxBiLinear.Scale(output, dst, v.background, v.background.Bounds(), xdraw.Src, nil)
}

// drawStroke renders a stroke's polyline in screen space.
func (v *MapViewport) drawStroke(output *image.RGBA, s sketch.Stroke) {
	if len(s.Points) < 2 {
		return
	}
	col := color.RGBA{R: 0xE8, G: 0x4D, B: 0x4D, A: 0xFF}
	thickness := int(s.Width)
	if thickness < 1 {
		thickness = 1
	}

	prev := v.params.ToScreen(v.state, geometry.NewPoint2D(s.Points[0], s.Points[1]))
	if s.PointCount() == 1 {
		drawDot(output, int(prev.X), int(prev.Y), thickness, col)
		return
	}
	for i := 2; i+1 < len(s.Points); i += 2 {
		next := v.params.ToScreen(v.state, geometry.NewPoint2D(s.Points[i], s.Points[i+1]))
		drawLine(output, int(prev.X), int(prev.Y), int(next.X), int(next.Y), col, thickness)
		prev = next
	}
}

// markerColors maps each spot type to its disc color.
var markerColors = map[spot.Type]color.RGBA{
	spot.TypeSmoke:   {R: 0x9E, G: 0xA3, B: 0xA8, A: 0xFF},
	spot.TypeFlash:   {R: 0xF2, G: 0xC9, B: 0x3B, A: 0xFF},
	spot.TypeMolotov: {R: 0xE8, G: 0x6A, B: 0x2E, A: 0xFF},
	spot.TypeHE:      {R: 0x5C, G: 0xB8, B: 0x5C, A: 0xFF},
}

// markerLetters maps each spot type to the letter drawn on its disc.
var markerLetters = map[spot.Type]rune{
	spot.TypeSmoke:   'S',
	spot.TypeFlash:   'F',
	spot.TypeMolotov: 'M',
	spot.TypeHE:      'H',
}

// drawMarker renders one spot: a filled disc in the type's color, the type
// letter, and a highlight ring when selected.
func (v *MapViewport) drawMarker(output *image.RGBA, sp spot.Spot) {
	pos := v.markerScreenPos(sp)
	cx, cy := int(pos.X), int(pos.Y)

	col, ok := markerColors[sp.Type]
	if !ok {
		col = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	}

	drawDisc(output, cx, cy, int(markerRadius), col)
	drawRing(output, cx, cy, int(markerRadius), color.RGBA{A: 0xFF})
	if sp.ID == v.selectedID {
		drawRing(output, cx, cy, int(markerRadius)+3, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	}

	if letter, ok := markerLetters[sp.Type]; ok {
		drawLetter(output, letter, cx, cy, 2, color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF})
	}
}

// drawDisc fills a circle.
func drawDisc(output *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := output.Bounds()
	r2 := r * r
	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawRing draws a circle outline two pixels thick.
func drawRing(output *image.RGBA, cx, cy, r int, col color.RGBA) {
	bounds := output.Bounds()
	outer := r * r
	inner := (r - 2) * (r - 2)
	for y := cy - r; y <= cy+r; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx, dy := x-cx, y-cy
			d2 := dx*dx + dy*dy
			if d2 <= outer && d2 >= inner {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawDot draws a square point, used for one-point strokes.
func drawDot(output *image.RGBA, cx, cy, size int, col color.RGBA) {
	bounds := output.Bounds()
	half := size / 2
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

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
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

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

// drawLetter draws a single character centered at the given point.
func drawLetter(output *image.RGBA, ch rune, centerX, centerY, scale int, col color.RGBA) {
	if scale < 1 {
		scale = 1
	}
	pattern := getCharPattern(ch)

	startX := centerX - (3*scale)/2
	startY := centerY - (5*scale)/2
	bounds := output.Bounds()

	for row := 0; row < 5; row++ {
		for c := 0; c < 3; c++ {
			if (pattern[row] & (1 << (2 - c))) == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					px := startX + c*scale + dx
					py := startY + row*scale + dy
					if px >= bounds.Min.X && px < bounds.Max.X &&
						py >= bounds.Min.Y && py < bounds.Max.Y {
						output.SetRGBA(px, py, col)
					}
				}
			}
		}
	}
}
