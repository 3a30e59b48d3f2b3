// Package color provides the terminal palette and the names accepted for annotation colors.
package color

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI 8-color palette.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")
	Black  = New("8")
)

// High-intensity extension.
var (
	HiRed    = New("9")
	HiGreen  = New("10")
	HiYellow = New("11")
	HiBlue   = New("12")
	HiPurple = New("13")
	HiCyan   = New("14")
	HiWhite  = New("15")
)

var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)

var named = map[string]lipgloss.Color{
	"red":    Red,
	"green":  Green,
	"yellow": Yellow,
	"blue":   Blue,
	"purple": Purple,
	"cyan":   Cyan,
	"white":  White,
	"black":  Black,
	"orange": Orange,
	"gray":   Gray,
}

var (
	hexColor  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	ansiColor = regexp.MustCompile(`^\d{1,3}$`)
)

// Names returns the color names accepted by Parse, sorted.
func Names() []string {
	names := lo.Keys(named)
	slices.Sort(names)
	return names
}

// Parse accepts a color name, an ANSI index (0-255) or a #rgb/#rrggbb hex value.
func Parse(value string) (lipgloss.Color, error) {
	value = strings.ToLower(strings.TrimSpace(value))

	if c, ok := named[value]; ok {
		return c, nil
	}

	if hexColor.MatchString(value) {
		return New(value), nil
	}

	if ansiColor.MatchString(value) {
		if n, err := strconv.Atoi(value); err == nil && n <= 255 {
			return New(value), nil
		}
	}

	return "", fmt.Errorf("unknown color %q, use one of %s, an ANSI index or a hex value", value, strings.Join(Names(), ", "))
}
