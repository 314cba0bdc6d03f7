package report

import "image/color"

var plotColors = []color.Color{
	color.RGBA{R: 33, G: 150, B: 243, A: 255}, // blue
	color.RGBA{R: 76, G: 175, B: 80, A: 255},  // green
	color.RGBA{R: 244, G: 67, B: 54, A: 255},  // red
	color.RGBA{R: 255, G: 152, B: 0, A: 255},  // orange
}
