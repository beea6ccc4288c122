// Package stitch fuses two creature species into a named hybrid and renders a
// placeholder portrait for it.
package stitch

import (
	"encoding/base64"
	"fmt"
	"html"
	"math/rand/v2"
	"strings"
)

// Species is one half of a stitch.
type Species struct {
	Name        string   `json:"name"`
	VisualHints []string `json:"visualHints"`
	Colors      []string `json:"colors"`
}

// Dimensions is the output image size in pixels.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var qualities = map[string]Dimensions{
	"low":  {512, 512},
	"med":  {768, 768},
	"high": {1024, 1024},
}

// DimensionsFor maps a quality name to a size. Unknown names get "med".
func DimensionsFor(quality string) (string, Dimensions) {
	if d, ok := qualities[quality]; ok {
		return quality, d
	}
	return "med", qualities["med"]
}

// Portmanteau joins the first half of a (rounded up) with the second half of
// b (rounded down).
func Portmanteau(a, b string) string {
	ra, rb := []rune(a), []rune(b)
	return string(ra[:(len(ra)+1)/2]) + string(rb[len(rb)/2:])
}

const negativePrompt = "photorealistic, hyper-detailed, gore, NSFW, watermark, text, 3D render, shiny metallic, extra unexplained limbs, distorted anatomy"

// Prompt describes the hybrid for an image model.
func Prompt(a, b Species) string {
	colors := append(append([]string{}, a.Colors...), b.Colors...)
	return fmt.Sprintf("Create a cute-spooky cartoon creature blending %s and %s. "+
		"Flat-color, clean outlines, minimal shading, simple shapes, slightly eerie but friendly. "+
		"Combine features: %s + %s. "+
		"Color palette: %s. "+
		"Centered character on a simple flat or subtle textured background. No realism.",
		a.Name, b.Name,
		strings.Join(a.VisualHints, ", "), strings.Join(b.VisualHints, ", "),
		strings.Join(colors, ", "))
}

var descriptions = []string{
	"A haunting fusion of %s and %s, lurking in the shadows.",
	"Born from the essence of %s and %s, this creature defies nature.",
	"The unholy union of %s and %s manifests in spectral form.",
	"Where %s meets %s, something eerie emerges.",
}

// Description picks a flavour line for the pair.
func Description(rng *rand.Rand, a, b Species) string {
	return fmt.Sprintf(descriptions[rng.IntN(len(descriptions))], a.Name, b.Name)
}

// Traits draws four to six visual hints from both species.
func Traits(rng *rand.Rand, a, b Species) []string {
	all := append(append([]string{}, a.VisualHints...), b.VisualHints...)
	rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	n := 4 + rng.IntN(3)
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func firstColor(s Species, fallback string) string {
	if len(s.Colors) == 0 {
		return fallback
	}
	return s.Colors[0]
}

// PlaceholderImage returns an SVG gradient card as a data URL.
func PlaceholderImage(a, b Species, d Dimensions) string {
	svg := fmt.Sprintf(`<svg width="%[1]d" height="%[2]d" xmlns="http://www.w3.org/2000/svg">
<defs><linearGradient id="grad" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
<stop offset="0%%" style="stop-color:%[3]s;stop-opacity:1" />
<stop offset="100%%" style="stop-color:%[4]s;stop-opacity:1" />
</linearGradient></defs>
<rect width="%[1]d" height="%[2]d" fill="url(#grad)" />
<text x="50%%" y="40%%" text-anchor="middle" font-size="48" fill="white" font-family="Arial">%[5]s</text>
<text x="50%%" y="50%%" text-anchor="middle" font-size="64" fill="white" font-family="Arial">+</text>
<text x="50%%" y="60%%" text-anchor="middle" font-size="48" fill="white" font-family="Arial">%[6]s</text>
<text x="50%%" y="75%%" text-anchor="middle" font-size="24" fill="rgba(255,255,255,0.7)" font-family="Arial">%[7]s</text>
</svg>`,
		d.Width, d.Height,
		html.EscapeString(firstColor(a, "#8844FF")), html.EscapeString(firstColor(b, "#FF8C42")),
		html.EscapeString(a.Name), html.EscapeString(b.Name),
		html.EscapeString(Portmanteau(a.Name, b.Name)))
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}
