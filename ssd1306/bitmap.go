// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import "fmt"

// Bitmap is a 1 bit per pixel image.
//
// Pix is row major, each row padded to a whole byte: (W+7)/8 bytes per row.
// Bit 0 of a byte is the leftmost pixel of its group of 8. A set bit is a lit
// pixel.
type Bitmap struct {
	W, H int
	Pix  []byte
}

// Stride returns the number of bytes per row.
func (b *Bitmap) Stride() int {
	return (b.W + 7) >> 3
}

// Validate returns an error wrapping ErrInvalidBitmap if b can't be drawn.
func (b *Bitmap) Validate() error {
	if b == nil || len(b.Pix) == 0 {
		return fmt.Errorf("ssd1306: bitmap has no data: %w", ErrInvalidBitmap)
	}
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("ssd1306: bitmap size %dx%d: %w", b.W, b.H, ErrInvalidBitmap)
	}
	if len(b.Pix) < b.Stride()*b.H {
		return fmt.Errorf("ssd1306: bitmap %dx%d needs %d bytes, got %d: %w", b.W, b.H, b.Stride()*b.H, len(b.Pix), ErrInvalidBitmap)
	}
	return nil
}

// DrawBitmap copies b into the framebuffer with its top left corner at (x,
// y). Pixels are overwritten, not ORed. The part that doesn't fit on the
// panel is clipped and a bitmap starting outside the panel draws nothing.
//
// b is only read during the call.
func (d *Dev) DrawBitmap(b *Bitmap, x, y int) error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return err
	}
	return d.blit(b.Pix, b.W, b.H, x, y)
}

// blit copies a w*h row major bitmap from src into the page major
// framebuffer.
func (d *Dev) blit(src []byte, w, h, x, y int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("ssd1306: bitmap size %dx%d: %w", w, h, ErrInvalidBitmap)
	}
	pw, ph := d.rect.Dx(), d.rect.Dy()
	if x < 0 || y < 0 || x >= pw || y >= ph {
		return nil
	}
	dw, dh := w, h
	if x+dw > pw {
		dw = pw - x
	}
	if y+dh > ph {
		dh = ph - y
	}
	stride := (w + 7) >> 3
	if need := (dh-1)*stride + (dw+7)>>3; len(src) < need {
		return fmt.Errorf("ssd1306: bitmap needs %d bytes, got %d: %w", need, len(src), ErrInvalidBitmap)
	}

	fullBytes := dw >> 3
	tailBits := dw & 7
	pix := d.buffer[1:]
	for i := 0; i < dh; i++ {
		row := src[i*stride:]
		line := y + i
		mask := byte(1) << uint(line&7)
		dst := pix[(line>>3)*pw+x:]
		for j := 0; j < fullBytes; j++ {
			s := row[j]
			cells := dst[j<<3 : j<<3+8]
			for k := range cells {
				cells[k] &^= mask
				if s>>uint(k)&1 != 0 {
					cells[k] |= mask
				}
			}
		}
		if tailBits != 0 {
			s := row[fullBytes]
			cells := dst[fullBytes<<3 : fullBytes<<3+tailBits]
			for k := range cells {
				cells[k] &^= mask
				if s>>uint(k)&1 != 0 {
					cells[k] |= mask
				}
			}
		}
	}
	return nil
}
