// Package cover draws placeholder cover images for posts that have none.
package cover

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options control the look of a generated cover. Zero fields take the
// values of DefaultOptions.
type Options struct {
	Width      int
	Height     int
	Padding    int
	TitleScale int
	BrandScale int
	Quality    int
	Brand      string
	Background color.RGBA
	Primary    color.RGBA
	Secondary  color.RGBA
	Text       color.RGBA
}

// DefaultOptions returns the standard 1200x630 social-card layout.
func DefaultOptions() Options {
	return Options{
		Width:      1200,
		Height:     630,
		Padding:    60,
		TitleScale: 4,
		BrandScale: 2,
		Quality:    90,
		Background: color.RGBA{0x0F, 0x17, 0x2A, 0xFF},
		Primary:    color.RGBA{0xB7, 0x41, 0x0E, 0xFF},
		Secondary:  color.RGBA{0x39, 0xFF, 0x14, 0xFF},
		Text:       color.RGBA{0xF8, 0xFA, 0xFC, 0xFF},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Padding <= 0 {
		o.Padding = d.Padding
	}
	if o.TitleScale <= 0 {
		o.TitleScale = d.TitleScale
	}
	if o.BrandScale <= 0 {
		o.BrandScale = d.BrandScale
	}
	if o.Quality <= 0 {
		o.Quality = d.Quality
	}
	if o.Background == (color.RGBA{}) {
		o.Background = d.Background
	}
	if o.Primary == (color.RGBA{}) {
		o.Primary = d.Primary
	}
	if o.Secondary == (color.RGBA{}) {
		o.Secondary = d.Secondary
	}
	if o.Text == (color.RGBA{}) {
		o.Text = d.Text
	}
	return o
}

const (
	stripeSpacing = 60
	stripeWidth   = 4
	dashOn        = 20
	dashOff       = 10
	overlayAlpha  = 0x40
)

var face = basicfont.Face7x13

// FileName returns the image file name used for a post's cover.
func FileName(slug string) string {
	return slug + "-featured.jpg"
}

// Render draws the cover for title.
func Render(title string, opts Options) *image.RGBA {
	o := opts.withDefaults()
	img := image.NewRGBA(image.Rect(0, 0, o.Width, o.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)

	drawStripes(img, o.Primary)
	drawGradient(img, o.Primary, o.Secondary)

	lines := wrapLines(strings.TrimSpace(title), o.Width-2*o.Padding, func(s string) int {
		return textWidth(s, o.TitleScale)
	})
	lineHeight := int(float64(glyphHeight()*o.TitleScale) * 1.4)
	startY := (o.Height - len(lines)*lineHeight) / 2
	shadow := color.RGBA{0, 0, 0, 0xB3}
	for i, line := range lines {
		x := (o.Width - textWidth(line, o.TitleScale)) / 2
		y := startY + i*lineHeight
		drawText(img, line, x+2, y+2, o.TitleScale, shadow)
		drawText(img, line, x, y, o.TitleScale, o.Text)
	}

	if o.Brand != "" {
		x := o.Width - o.Padding - textWidth(o.Brand, o.BrandScale)
		y := o.Height - o.Padding/2 - glyphHeight()*o.BrandScale
		drawText(img, o.Brand, x, y, o.BrandScale, o.Secondary)
	}
	return img
}

// Generate writes the cover for title to w as a JPEG.
func Generate(w io.Writer, title string, opts Options) error {
	o := opts.withDefaults()
	if err := jpeg.Encode(w, Render(title, o), &jpeg.Options{Quality: o.Quality}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}

// drawStripes draws dashed diagonal lines from top-left to bottom-right.
func drawStripes(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	h := b.Dy()
	period := float64(dashOn + dashOff)
	for start := -h; start < b.Dx()+h; start += stripeSpacing {
		for t := 0; t < h; t++ {
			along := float64(t) * math.Sqrt2
			if math.Mod(along, period) >= dashOn {
				continue
			}
			for dx := 0; dx < stripeWidth; dx++ {
				x := start + t + dx
				if x >= b.Min.X && x < b.Max.X {
					img.SetRGBA(x, t, c)
				}
			}
		}
	}
}

// drawGradient blends a translucent diagonal gradient from a to b over img.
func drawGradient(img *image.RGBA, a, b color.RGBA) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	span := float64(w*w + h*h)
	alpha := float64(overlayAlpha) / 0xFF
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x*w+y*h) / span
			over := [3]float64{
				lerp(float64(a.R), float64(b.R), t),
				lerp(float64(a.G), float64(b.G), t),
				lerp(float64(a.B), float64(b.B), t),
			}
			px := img.RGBAAt(x, y)
			img.SetRGBA(x, y, color.RGBA{
				R: blend(px.R, over[0], alpha),
				G: blend(px.G, over[1], alpha),
				B: blend(px.B, over[2], alpha),
				A: 0xFF,
			})
		}
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func blend(base uint8, over, alpha float64) uint8 {
	return uint8(math.Round(float64(base)*(1-alpha) + over*alpha))
}

func glyphHeight() int {
	return face.Metrics().Height.Ceil()
}

func textWidth(s string, scale int) int {
	return font.MeasureString(face, s).Ceil() * scale
}

// drawText renders s with the bitmap face and scales it up onto dst with its
// top-left corner at (x, y).
func drawText(dst *image.RGBA, s string, x, y, scale int, c color.RGBA) {
	if s == "" {
		return
	}
	w := font.MeasureString(face, s).Ceil()
	h := glyphHeight()
	small := image.NewRGBA(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	target := image.Rect(x, y, x+w*scale, y+h*scale)
	draw.NearestNeighbor.Scale(dst, target, small, small.Bounds(), draw.Over, nil)
}

// wrapLines breaks text into lines narrower than maxWidth, splitting on
// spaces only. A single word wider than maxWidth gets a line of its own.
func wrapLines(text string, maxWidth int, measure func(string) int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if measure(current+" "+word) < maxWidth {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
