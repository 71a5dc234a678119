// Package fonts provides font settings and label metrics shared by the
// SVG sink and the terminal canvas.
//
// The viewer draws node labels in a plain sans-serif face at a fixed
// size, so no font data is embedded; SVG output names a font stack and
// lets the consumer resolve it.
package fonts

// LabelFontFamily is the CSS font-family stack for node labels.
const LabelFontFamily = `Helvetica, Arial, sans-serif`

// LabelFontSize is the label text size in SVG user units. Labels keep
// this size regardless of depth, like a screen-space bitmap font.
const LabelFontSize = 12.0

// charWidthRatio approximates average glyph advance as a fraction of the
// font size for the label face.
const charWidthRatio = 0.55

// ApproxWidth estimates the rendered width of text at the given font
// size. The estimate is good enough for layout margins and truncation
// decisions; exact metrics would require shaping the actual font.
func ApproxWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * charWidthRatio
}

// Truncate shortens text so its approximate rendered width fits maxWidth
// at the given font size, appending ".." when anything was cut. Strings
// that already fit are returned unchanged.
func Truncate(text string, size, maxWidth float64) string {
	runes := []rune(text)
	maxChars := int(maxWidth / (size * charWidthRatio))
	if maxChars < 3 {
		maxChars = 3
	}
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars-2]) + ".."
}
