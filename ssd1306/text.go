// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import "fmt"

// Placeholder is drawn in place of malformed or unsupported UTF-8 input.
const Placeholder = '?'

// Font is a pre-rasterized bitmap font.
type Font struct {
	// Width is the glyph width of monospaced subsets and the advance used for
	// runes the font doesn't have.
	Width  int
	Height int
	// LetterSpacing is added after each glyph.
	LetterSpacing int
	// WordSpacing is the advance of a space.
	WordSpacing int
	// Subsets are searched in order, the first one whose range contains a
	// rune is the only one used for it.
	Subsets []Subset
}

// Subset is a contiguous range of runes.
type Subset struct {
	// Start and End are inclusive.
	Start, End rune
	// Count is the number of glyphs defined, starting at Start. It can be
	// lower than the range size.
	Count int
	// Symbols holds the glyphs, each one laid out like Bitmap.Pix.
	Symbols []byte
	// Offsets is the byte offset of each glyph in Symbols.
	Offsets []uint32
	// Widths is the width of each glyph. nil means every glyph is Font.Width
	// wide.
	Widths []uint8
}

// Validate returns an error wrapping ErrInvalidFont if the tables of f are
// inconsistent.
func (f *Font) Validate() error {
	if f == nil {
		return fmt.Errorf("ssd1306: no font: %w", ErrInvalidFont)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("ssd1306: font size %dx%d: %w", f.Width, f.Height, ErrInvalidFont)
	}
	for i := range f.Subsets {
		s := &f.Subsets[i]
		if s.Start > s.End {
			return fmt.Errorf("ssd1306: subset %d range [%#x, %#x]: %w", i, s.Start, s.End, ErrInvalidFont)
		}
		if s.Count < 0 || len(s.Offsets) < s.Count || (s.Widths != nil && len(s.Widths) < s.Count) {
			return fmt.Errorf("ssd1306: subset %d tables shorter than %d glyphs: %w", i, s.Count, ErrInvalidFont)
		}
		for j, o := range s.Offsets[:s.Count] {
			if int(o) > len(s.Symbols) {
				return fmt.Errorf("ssd1306: subset %d glyph %d offset %d past %d bytes: %w", i, j, o, len(s.Symbols), ErrInvalidFont)
			}
		}
	}
	return nil
}

// subset returns the first subset covering r, or nil.
func (f *Font) subset(r rune) *Subset {
	for i := range f.Subsets {
		if s := &f.Subsets[i]; r >= s.Start && r <= s.End {
			return s
		}
	}
	return nil
}

// Print draws text in the framebuffer with the current font, the top left
// corner of the first glyph at (x, y).
//
// It stops silently once the cursor goes past the right edge or at a
// truncated UTF-8 sequence ending text. Runes the font lacks leave a blank
// of Font.Width.
func (d *Dev) Print(text string, x, y int) error {
	if err := d.ready(); err != nil {
		return err
	}
	f := d.font
	if f == nil {
		return fmt.Errorf("ssd1306: no font set: %w", ErrInvalidFont)
	}
	cursor := x
	for i := 0; i < len(text); {
		if cursor >= d.rect.Dx() {
			break
		}
		r, n := decodeRune(text[i:])
		if n == 0 {
			break
		}
		i += n
		if r == ' ' {
			cursor += f.WordSpacing
			continue
		}
		w := f.Width
		if s := f.subset(r); s != nil {
			if idx := int(r - s.Start); idx < s.Count {
				if idx >= len(s.Offsets) || (s.Widths != nil && idx >= len(s.Widths)) {
					return fmt.Errorf("ssd1306: rune %q missing from subset tables: %w", r, ErrInvalidFont)
				}
				if s.Widths != nil {
					w = int(s.Widths[idx])
				}
				off := int(s.Offsets[idx])
				if off > len(s.Symbols) {
					return fmt.Errorf("ssd1306: rune %q offset %d past glyph data: %w", r, off, ErrInvalidFont)
				}
				if err := d.blit(s.Symbols[off:], w, f.Height, cursor, y); err != nil {
					return err
				}
			}
		}
		cursor += w + f.LetterSpacing
	}
	return nil
}

// decodeRune decodes the first UTF-8 sequence of s and returns the number of
// bytes consumed, 0 when s ends in the middle of the sequence.
//
// A malformed 2 or 3 bytes sequence yields Placeholder and consumes only its
// first byte, so the following byte is decoded again as a new sequence. A 4
// bytes sequence always yields Placeholder and consumes 4 bytes.
func decodeRune(s string) (rune, int) {
	b0 := s[0]
	switch {
	case b0 < 0x80:
		return rune(b0), 1
	case b0&0xE0 == 0xC0:
		if len(s) < 2 {
			return 0, 0
		}
		if !isContinuation(s[1]) {
			return Placeholder, 1
		}
		return rune(b0&0x1F)<<6 | rune(s[1]&0x3F), 2
	case b0&0xF0 == 0xE0:
		if len(s) < 3 {
			return 0, 0
		}
		if !isContinuation(s[1]) || !isContinuation(s[2]) {
			return Placeholder, 1
		}
		return rune(b0&0x0F)<<12 | rune(s[1]&0x3F)<<6 | rune(s[2]&0x3F), 3
	case b0&0xF8 == 0xF0:
		if len(s) < 4 {
			return 0, 0
		}
		return Placeholder, 4
	default:
		return Placeholder, 1
	}
}

func isContinuation(b byte) bool {
	return b&0xC0 == 0x80
}
