// Package chart renders simple bar charts to PNG for the dashboard views.
package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	chartWidth  = 760
	chartHeight = 420

	marginLeft   = 40
	marginRight  = 20
	marginTop    = 50
	marginBottom = 60
)

var (
	background = color.RGBA{R: 0x2c, G: 0x3e, B: 0x50, A: 0xff}
	textColor  = color.RGBA{R: 0xec, G: 0xf0, B: 0xf1, A: 0xff}
	axisColor  = color.RGBA{R: 0x7f, G: 0x8c, B: 0x8d, A: 0xff}

	palette = []color.RGBA{
		{R: 0x1a, G: 0xbc, B: 0x9c, A: 0xff},
		{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
		{R: 0xe6, G: 0x7e, B: 0x22, A: 0xff},
		{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
		{R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff},
		{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
	}
)

// Bar is one labelled value. Series selects the palette color, so paired
// series (e.g. demand vs supply per product) render distinguishably.
type Bar struct {
	Label  string
	Value  float64
	Series int
}

// Render draws a vertical bar chart and returns it as PNG bytes.
func Render(title string, bars []Bar) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	drawText(img, title, marginLeft, 28, textColor)

	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBottom
	baseline := marginTop + plotH

	// Axis lines.
	for x := marginLeft; x < chartWidth-marginRight; x++ {
		img.Set(x, baseline, axisColor)
	}
	for y := marginTop; y <= baseline; y++ {
		img.Set(marginLeft, y, axisColor)
	}

	if len(bars) == 0 {
		drawText(img, "no data", marginLeft+plotW/2-24, marginTop+plotH/2, textColor)
		return encode(img)
	}

	maxVal := bars[0].Value
	for _, b := range bars[1:] {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	slot := plotW / len(bars)
	barW := slot * 3 / 4
	if barW < 4 {
		barW = 4
	}

	for i, b := range bars {
		h := int(float64(plotH-10) * (b.Value / maxVal))
		if b.Value > 0 && h < 2 {
			h = 2
		}
		x0 := marginLeft + i*slot + (slot-barW)/2
		barColor := palette[((b.Series%len(palette))+len(palette))%len(palette)]

		rect := image.Rect(x0, baseline-h, x0+barW, baseline)
		draw.Draw(img, rect, image.NewUniform(barColor), image.Point{}, draw.Src)

		value := fmt.Sprintf("%.1f", b.Value)
		drawText(img, value, x0+(barW-len(value)*7)/2, baseline-h-6, textColor)
		drawText(img, truncate(b.Label, slot/7), x0+(barW-len(truncate(b.Label, slot/7))*7)/2, baseline+18, textColor)
	}

	return encode(img)
}

func truncate(s string, maxChars int) string {
	if maxChars < 3 {
		maxChars = 3
	}
	if len(s) <= maxChars {
		return s
	}
	return s[:maxChars-1] + "…"
}

func drawText(img *image.RGBA, s string, x, y int, c color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}
