// Package color assigns display colors to assignees and picks legible text
// colors for them.
package color

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
)

// DefaultPalette is used when no fallback palette is configured.
var DefaultPalette = []string{
	"#4c6ef5",
	"#228be6",
	"#15aabf",
	"#12b886",
	"#40c057",
	"#fab005",
	"#fd7e14",
	"#fa5252",
	"#e64980",
	"#845ef7",
}

const (
	// DarkText is returned for light backgrounds.
	DarkText = "#1f2933"
	// LightText is returned for dark backgrounds.
	LightText = "#ffffff"
)

// Resolve returns the color of an assignee, or "" when name is blank.
// An entry in explicit for the lowercased, trimmed name wins; otherwise the
// name is hashed into palette, or DefaultPalette when palette is empty.
func Resolve(name string, explicit map[string]string, palette []string) string {
	if name == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	if c := explicit[normalized]; c != "" {
		return c
	}

	colors := palette
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	return colors[hash(normalized)%int64(len(colors))]
}

// hash is the 31-multiplier rolling hash over UTF-16 code units, wrapped to a
// signed 32-bit integer and made non-negative.
func hash(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

// IdealTextColor returns DarkText or LightText depending on the relative
// luminance of a "#rrggbb" background. It returns "" for anything else.
func IdealTextColor(background string) string {
	hex := strings.Replace(background, "#", "", 1)
	if len(hex) != 6 {
		return ""
	}

	var channels [3]float64
	for i := range channels {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return ""
		}
		channels[i] = linear(float64(v))
	}

	l := 0.2126*channels[0] + 0.7152*channels[1] + 0.0722*channels[2]
	if l > 0.5 {
		return DarkText
	}
	return LightText
}

func linear(value float64) float64 {
	c := value / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}
