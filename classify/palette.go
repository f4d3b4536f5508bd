// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package classify

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DarkText  = "#000000"
	LightText = "#ffffff"
)

// Fill colors of the turnout map, darkest green for the highest turnout
var turnoutGreens = map[Token]string{
	Turnout80: "#173e19",
	Turnout70: "#205723",
	Turnout60: "#29702d",
	Turnout50: "#428a46",
	Turnout40: "#6ca46f",
	Turnout30: "#96be98",
	Turnout0:  "#c0d8c1",
}

// Endpoints of the diverging change ramp
const (
	decreaseHex = "#b2182b"
	neutralHex  = "#f7f7f7"
	increaseHex = "#1b7837"
)

// The no-data fill coincides with the lowest turnout bucket unless a
// profile overrides it.
const defaultNoDataHex = "#c0d8c1"

// Palette maps tokens to fill colors
type Palette struct {
	colors map[Token]colorful.Color
}

// DefaultPalette returns the turnout greens, a red-white-green change ramp,
// and the default no-data color.
func DefaultPalette() Palette {
	p := Palette{colors: make(map[Token]colorful.Color)}
	for tok, hex := range turnoutGreens {
		p.colors[tok] = mustHex(hex)
	}

	// delta tokens run high to low; walk the ramp from the decrease end
	deltas := Tokens(DeltaTurnout)
	low, mid, high := mustHex(decreaseHex), mustHex(neutralHex), mustHex(increaseHex)
	steps := float64(len(deltas) - 1)
	for i := range deltas {
		tok := deltas[len(deltas)-1-i]
		t := float64(i) / steps
		if t <= 0.5 {
			p.colors[tok] = low.BlendLab(mid, t/0.5).Clamped()
		} else {
			p.colors[tok] = mid.BlendLab(high, (t-0.5)/0.5).Clamped()
		}
	}

	p.colors[NoData] = mustHex(defaultNoDataHex)
	return p
}

// With returns a copy of the palette with the given tokens recolored
func (p Palette) With(overrides map[Token]string) (Palette, error) {
	out := Palette{colors: make(map[Token]colorful.Color, len(p.colors))}
	for tok, c := range p.colors {
		out.colors[tok] = c
	}
	for tok, hex := range overrides {
		if _, known := p.colors[tok]; !known {
			return Palette{}, fmt.Errorf("unknown color token %q", tok)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("invalid color %q for %s: %w", hex, tok, err)
		}
		out.colors[tok] = c
	}
	return out, nil
}

// Color returns the hex fill color for a token
func (p Palette) Color(tok Token) string {
	c, ok := p.colors[tok]
	if !ok {
		c = p.colors[NoData]
	}
	return c.Hex()
}

// TextColor picks dark or light text for readable labels on the token's fill
func (p Palette) TextColor(tok Token) string {
	c, ok := p.colors[tok]
	if !ok {
		c = p.colors[NoData]
	}
	_, _, l := c.Hcl()
	if l > 0.5 {
		return DarkText
	}
	return LightText
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("classify: bad built-in color %q: %v", s, err))
	}
	return c
}
