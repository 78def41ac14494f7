// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// solid returns n glyphs of 8 rows of one byte, every pixel lit.
func solid(n int) ([]byte, []uint32) {
	offsets := make([]uint32, n)
	for i := range offsets {
		offsets[i] = uint32(8 * i)
	}
	return bytes.Repeat([]byte{0xFF}, 8*n), offsets
}

// testFont has 4x8 glyphs. '?' only lights its top row, the other glyphs are
// solid rectangles.
func testFont() *Font {
	upper, upperOffsets := solid(2)
	shadow, shadowOffsets := solid(26)
	lower, lowerOffsets := solid(3)
	accent, accentOffsets := solid(1)
	return &Font{
		Width:         4,
		Height:        8,
		LetterSpacing: 1,
		WordSpacing:   3,
		Subsets: []Subset{
			{Start: '?', End: '?', Count: 1, Symbols: []byte{0x0F, 0, 0, 0, 0, 0, 0, 0}, Offsets: []uint32{0}},
			// Only A and B are defined.
			{Start: 'A', End: 'Z', Count: 2, Symbols: upper, Offsets: upperOffsets},
			// Never used, the previous subset covers the same range.
			{Start: 'A', End: 'Z', Count: 26, Symbols: shadow, Offsets: shadowOffsets},
			{Start: 'a', End: 'c', Count: 3, Symbols: lower, Offsets: lowerOffsets, Widths: []uint8{2, 3, 6}},
			{Start: 'é', End: 'é', Count: 1, Symbols: accent, Offsets: accentOffsets},
			{Start: '€', End: '€', Count: 1, Symbols: accent, Offsets: accentOffsets},
		},
	}
}

// row renders the first n pixels of a framebuffer row.
func row(d *Dev, y, n int) string {
	var b strings.Builder
	for x := 0; x < n; x++ {
		if pixel(d, x, y) {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

func TestPrint(t *testing.T) {
	for _, tc := range []struct {
		name       string
		text       string
		row0, row1 string
	}{
		{"empty", "", "................", "................"},
		{"ascii", "A", "####............", "####............"},
		{"word spacing", "A A", "####....####....", "####....####...."},
		{"letter spacing", "AB", "####.####.......", "####.####......."},
		{"undefined symbol", "CA", ".....####.......", ".....####......."},
		{"no subset", "~A", ".....####.......", ".....####......."},
		{"widths table", "abc", "##.###.######...", "##.###.######..."},
		{"two and three bytes", "é€A", "####.####.####..", "####.####.####.."},
		{"malformed two bytes", "\xC2A", "####.####.......", ".....####......."},
		{"malformed three bytes", "\xE2\x82A", "####.####.####..", "..........####.."},
		{"four bytes", "\xF0\x9F\x98\x80A", "####.####.......", ".....####......."},
		{"malformed four bytes", "\xF0\x41\x41\x41A", "####.####.......", ".....####......."},
		{"stray continuation", "\x80A", "####.####.......", ".....####......."},
		{"truncated two bytes", "A\xC2", "####............", "####............"},
		{"truncated three bytes", "A\xE2\x82", "####............", "####............"},
		{"truncated four bytes", "A\xF0\x9F\x98", "####............", "####............"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, rec := newDev(t, 128, 64)
			d.SetFont(testFont())
			if err := d.Print(tc.text, 0, 0); err != nil {
				t.Fatal(err)
			}
			if got := row(d, 0, 16); got != tc.row0 {
				t.Errorf("row 0 = %q; want %q", got, tc.row0)
			}
			if got := row(d, 1, 16); got != tc.row1 {
				t.Errorf("row 1 = %q; want %q", got, tc.row1)
			}
			if got := row(d, 8, 128); strings.Contains(got, "#") {
				t.Errorf("row 8 = %q", got)
			}
			if len(rec.Ops) != 0 {
				t.Fatal("Print talked to the bus")
			}
		})
	}
}

func TestPrintPosition(t *testing.T) {
	d, _ := newDev(t, 128, 64)
	d.SetFont(testFont())
	if err := d.Print("A", 2, 3); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			want := x >= 2 && x < 6 && y >= 3 && y < 11
			if got := pixel(d, x, y); got != want {
				t.Fatalf("(%d, %d) = %t; want %t", x, y, got, want)
			}
		}
	}
}

func TestPrintRightEdge(t *testing.T) {
	d, _ := newDev(t, 128, 32)
	d.SetFont(testFont())
	if err := d.Print("AAAAAA", 120, 0); err != nil {
		t.Fatal(err)
	}
	want := strings.Repeat(".", 120) + "####.###"
	if got := row(d, 0, 128); got != want {
		t.Fatalf("row 0 = %q; want %q", got, want)
	}
}

func TestPrintOffScreen(t *testing.T) {
	d, _ := newDev(t, 128, 32)
	d.SetFont(testFont())
	for _, pt := range [][2]int{{128, 0}, {0, 32}, {-20, 0}} {
		if err := d.Print("AB", pt[0], pt[1]); err != nil {
			t.Fatalf("Print(%v) = %v", pt, err)
		}
	}
	for i, b := range d.buffer[1:] {
		if b != 0 {
			t.Fatalf("buffer[%d] = %#x", i+1, b)
		}
	}
}

func TestPrintNoFont(t *testing.T) {
	d, _ := newDev(t, 128, 64)
	if err := d.Print("A", 0, 0); !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("Print() = %v; want ErrInvalidFont", err)
	}
	d.SetFont(testFont())
	d.SetFont(nil)
	if err := d.Print("A", 0, 0); !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("Print() = %v; want ErrInvalidFont", err)
	}
}

func TestPrintGlyphFailure(t *testing.T) {
	d, _ := newDev(t, 128, 64)
	f := testFont()
	f.Subsets[3].Widths = []uint8{2, 0, 6}
	d.SetFont(f)
	if err := d.Print("aba", 0, 0); !errors.Is(err, ErrInvalidBitmap) {
		t.Fatalf("Print() = %v; want ErrInvalidBitmap", err)
	}
	if got := row(d, 0, 16); got != "##.............." {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestPrintBrokenTables(t *testing.T) {
	d, _ := newDev(t, 128, 64)
	f := testFont()
	f.Subsets[1].Offsets = []uint32{0}
	d.SetFont(f)
	if err := d.Print("B", 0, 0); !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("Print() = %v; want ErrInvalidFont", err)
	}
	f = testFont()
	f.Subsets[1].Offsets = []uint32{0, 1000}
	d.SetFont(f)
	if err := d.Print("B", 0, 0); !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("Print() = %v; want ErrInvalidFont", err)
	}
}

func TestFontValidate(t *testing.T) {
	if err := testFont().Validate(); err != nil {
		t.Fatal(err)
	}
	for name, mutate := range map[string]func(f *Font){
		"zero width":      func(f *Font) { f.Width = 0 },
		"zero height":     func(f *Font) { f.Height = 0 },
		"reversed range":  func(f *Font) { f.Subsets[1].Start = 'a' },
		"short offsets":   func(f *Font) { f.Subsets[1].Offsets = f.Subsets[1].Offsets[:1] },
		"short widths":    func(f *Font) { f.Subsets[3].Widths = []uint8{1} },
		"offset past end": func(f *Font) { f.Subsets[0].Offsets[0] = 9 },
	} {
		f := testFont()
		mutate(f)
		if err := f.Validate(); !errors.Is(err, ErrInvalidFont) {
			t.Errorf("%s: Validate() = %v; want ErrInvalidFont", name, err)
		}
	}
	var f *Font
	if err := f.Validate(); !errors.Is(err, ErrInvalidFont) {
		t.Fatalf("nil font: Validate() = %v", err)
	}
}

func TestDecodeRune(t *testing.T) {
	for _, tc := range []struct {
		in    string
		want  rune
		wantN int
	}{
		{"A", 'A', 1},
		{"\x00", 0, 1},
		{"\xC3\xA9", 'é', 2},
		{"\xC2A", Placeholder, 1},
		{"\xE2\x82\xAC", '€', 3},
		{"\xE2\x82A", Placeholder, 1},
		{"\xE2A\x82", Placeholder, 1},
		{"\xF0\x9F\x98\x80", Placeholder, 4},
		{"\xF0AAA", Placeholder, 4},
		{"\x80", Placeholder, 1},
		{"\xFF", Placeholder, 1},
		{"\xC2", 0, 0},
		{"\xE2\x82", 0, 0},
		{"\xF0\x9F\x98", 0, 0},
	} {
		r, n := decodeRune(tc.in)
		if r != tc.want || n != tc.wantN {
			t.Errorf("decodeRune(%q) = %q, %d; want %q, %d", tc.in, r, n, tc.want, tc.wantN)
		}
	}
}
