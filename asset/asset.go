// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package asset packs images and pre-rasterized font faces into the 1 bit
// formats consumed by package ssd1306.
//
// It only repacks pixels that already exist; it doesn't parse image or font
// files.
package asset

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/GermanBionicSystems/oled/ssd1306"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BitmapFromImage packs img into a Bitmap. A pixel is lit when it is mostly
// opaque and at least half bright.
func BitmapFromImage(img image.Image) *ssd1306.Bitmap {
	r := img.Bounds()
	b := &ssd1306.Bitmap{W: r.Dx(), H: r.Dy()}
	stride := b.Stride()
	b.Pix = make([]byte, stride*b.H)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if lit(img, r.Min.X+x, r.Min.Y+y) {
				b.Pix[y*stride+x>>3] |= 1 << uint(x&7)
			}
		}
	}
	return b
}

func lit(img image.Image, x, y int) bool {
	r, g, b, a := img.At(x, y).RGBA()
	if a < 0x8000 {
		return false
	}
	// ITU-R 601 luma, the same weights as color.GrayModel.
	return (19595*r+38470*g+7471*b+1<<15)>>16 >= 0x8000
}

// Range is an inclusive range of runes.
type Range struct {
	Low, High rune
}

// FontFromFace rasterizes the runes of ranges from face. Each range becomes
// one Subset. Runes the face lacks are left blank.
//
// The glyph cell is the face line height tall and the rune advance wide. When
// every glyph has the same advance, the subsets have no width table.
func FontFromFace(face font.Face, ranges ...Range) (*ssd1306.Font, error) {
	if len(ranges) == 0 {
		return nil, errors.New("asset: no rune range")
	}
	m := face.Metrics()
	height := m.Height.Ceil()
	if height <= 0 {
		return nil, fmt.Errorf("asset: invalid face height %d", height)
	}
	f := &ssd1306.Font{Height: height}
	if adv, ok := face.GlyphAdvance(' '); ok {
		f.WordSpacing = adv.Ceil()
	}
	if adv, ok := face.GlyphAdvance('0'); ok {
		f.Width = adv.Ceil()
	}
	dot := fixed.P(0, m.Ascent.Ceil())
	for _, rg := range ranges {
		if rg.Low > rg.High {
			return nil, fmt.Errorf("asset: invalid range [%#x, %#x]", rg.Low, rg.High)
		}
		s := ssd1306.Subset{Start: rg.Low, End: rg.High, Count: int(rg.High-rg.Low) + 1}
		widths := make([]uint8, 0, s.Count)
		for r := rg.Low; r <= rg.High; r++ {
			w := f.Width
			dr, mask, mp, adv, ok := face.Glyph(dot, r)
			if ok {
				w = adv.Ceil()
			} else {
				// Some faces return a replacement glyph.
				mask = nil
			}
			if w <= 0 || w > 255 {
				return nil, fmt.Errorf("asset: rune %q has width %d", r, w)
			}
			if f.Width == 0 {
				f.Width = w
			}
			s.Offsets = append(s.Offsets, uint32(len(s.Symbols)))
			widths = append(widths, uint8(w))
			s.Symbols = appendGlyph(s.Symbols, w, height, dr, mask, mp)
		}
		for _, w := range widths {
			if int(w) != f.Width {
				s.Widths = widths
				break
			}
		}
		f.Subsets = append(f.Subsets, s)
	}
	return f, nil
}

// appendGlyph appends a w*h cell holding mask, drawn at dr, to dst.
func appendGlyph(dst []byte, w, h int, dr image.Rectangle, mask image.Image, mp image.Point) []byte {
	stride := (w + 7) >> 3
	cell := make([]byte, stride*h)
	if mask != nil {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if !(image.Point{x, y}.In(dr)) {
					continue
				}
				if _, _, _, a := mask.At(mp.X+x-dr.Min.X, mp.Y+y-dr.Min.Y).RGBA(); a >= 0x8000 {
					cell[y*stride+x>>3] |= 1 << uint(x&7)
				}
			}
		}
	}
	return append(dst, cell...)
}

var (
	basicOnce sync.Once
	basic     *ssd1306.Font
)

// Basic7x13 returns a 7x13 font covering printable ASCII, built from
// basicfont.Face7x13. Other runes print as blanks. It is built on first use and shared.
func Basic7x13() *ssd1306.Font {
	basicOnce.Do(func() {
		f, err := FontFromFace(basicfont.Face7x13, Range{'!', '~'})
		if err != nil {
			panic(err)
		}
		basic = f
	})
	return basic
}
