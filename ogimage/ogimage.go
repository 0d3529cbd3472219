// Package ogimage renders the Open Graph preview cards served at /og.
package ogimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Card dimensions recommended by the Open Graph consumers.
const (
	Width  = 1200
	Height = 630
)

// MaxTitleRunes caps the title length; longer titles are cut with an ellipsis.
const MaxTitleRunes = 120

const (
	padding    = 80
	titleScale = 5
	siteScale  = 3
	maxLines   = 4
	lineGap    = 16
)

// DefaultAccent is the accent color used when a card sets none.
const DefaultAccent = "#f97316"

var (
	background = colorful.Color{R: 0x0b / 255.0, G: 0x0f / 255.0, B: 0x19 / 255.0}
	foreground = color.RGBA{R: 0xf8, G: 0xfa, B: 0xfc, A: 0xff}
	muted      = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// Card describes one preview image.
type Card struct {
	SiteName string
	Title    string
	// Accent is a hex color such as "#f97316". Invalid or empty values
	// fall back to DefaultAccent.
	Accent string
}

// ParseAccent parses a hex accent color.
func ParseAccent(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("ogimage: accent %q: %w", hex, err)
	}
	return c, nil
}

func (c Card) accent() colorful.Color {
	if a, err := ParseAccent(c.Accent); err == nil {
		return a
	}
	a, _ := colorful.Hex(DefaultAccent)
	return a
}

var face = basicfont.Face7x13

// Render encodes the card as PNG to w.
func Render(w io.Writer, card Card) error {
	if err := png.Encode(w, Draw(card)); err != nil {
		return fmt.Errorf("encode og image: %w", err)
	}
	return nil
}

// Draw paints the card. An empty title puts the site name in the title slot.
func Draw(card Card) *image.RGBA {
	accent := card.accent()
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, Width, 12), image.NewUniform(accent.Clamped()), image.Point{}, draw.Src)
	// Footer band: the accent faded into the background.
	band := accent.BlendLab(background, 0.8).Clamped()
	draw.Draw(img, image.Rect(0, Height-8, Width, Height), image.NewUniform(band), image.Point{}, draw.Src)

	siteName := card.SiteName
	title := Truncate(strings.TrimSpace(card.Title), MaxTitleRunes)
	if title == "" {
		title = siteName
	}

	glyphW := face.Width * titleScale
	lineH := face.Height * titleScale
	lines := Wrap(title, (Width-2*padding)/glyphW, maxLines)
	y := padding + 40
	for _, line := range lines {
		drawScaled(img, padding, y, line, titleScale, foreground)
		y += lineH + lineGap
	}

	siteY := Height - padding - face.Height*siteScale
	drawScaled(img, padding, siteY, siteName, siteScale, muted)
	return img
}

// drawScaled draws text at 1x with the bitmap face, then scales it onto dst
// with its top-left corner at (x, y).
func drawScaled(dst *image.RGBA, x, y int, text string, scale int, col color.Color) {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return
	}
	small := image.NewRGBA(image.Rect(0, 0, n*face.Width, face.Height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: 0, Y: fixed.I(face.Ascent)},
	}
	d.DrawString(text)

	b := small.Bounds()
	target := image.Rect(x, y, x+b.Dx()*scale, y+b.Dy()*scale)
	draw.CatmullRom.Scale(dst, target, small, b, draw.Over, nil)
}

// Truncate shortens s to at most max runes, ending in "..." when cut and
// there is room for it.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max <= 3 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-3])) + "..."
}

// Wrap breaks s into at most maxLines lines of at most width runes. Words
// longer than a line are split. Overflowing text ends the last line in "...".
func Wrap(s string, width, maxLines int) []string {
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	var cur []rune
	flush := func() {
		lines = append(lines, string(cur))
		cur = cur[:0]
	}
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				flush()
			}
			cur = append(cur, w[:width]...)
			flush()
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, w...)
		case len(cur)+1+len(w) <= width:
			cur = append(cur, ' ')
			cur = append(cur, w...)
		default:
			flush()
			cur = append(cur, w...)
		}
	}
	if len(cur) > 0 {
		flush()
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		if width <= 3 {
			lines[maxLines-1] = string(last[:min(len(last), width)])
			return lines
		}
		if len(last) > width-3 {
			last = last[:width-3]
		}
		lines[maxLines-1] = strings.TrimSpace(string(last)) + "..."
	}
	return lines
}
