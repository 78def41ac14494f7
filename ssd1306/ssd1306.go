// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

// The SSD1306 is a 128x64 dot matrix OLED controller. Page numbers in comments
// refer to the SSD1306 datasheet revision 1.1.
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	_CHARGEPUMP          = 0x8D
	_COLUMNADDR          = 0x21
	_COMSCANDEC          = 0xC8
	_COMSCANINC          = 0xC0
	_DEACTIVATE_SCROLL   = 0x2E
	_ACTIVATE_SCROLL     = 0x2F
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_FADEBLINK           = 0x23
	_INVERTDISPLAY       = 0xA7
	_MEMORYMODE          = 0x20
	_NORMALDISPLAY       = 0xA6
	_PAGEADDR            = 0x22
	_PAGESTARTADDRESS    = 0xB0
	_SEGREMAP            = 0xA0
	_SETCOMPINS          = 0xDA
	_SETCONTRAST         = 0x81
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETDISPLAYOFFSET    = 0xD3
	_SETHIGHCOLUMN       = 0x10
	_SETLOWCOLUMN        = 0x00
	_SETMULTIPLEX        = 0xA8
	_SETPRECHARGE        = 0xD9
	_SETSEGMENTREMAP     = 0xA1
	_SETSTARTLINE        = 0x40
	_SETVCOMDETECT       = 0xDB
	_ZOOMIN              = 0xD6
)

const (
	i2cCmd  = 0x00 // I²C transaction has stream of command bytes
	i2cData = 0x40 // I²C transaction has stream of data bytes
)

const (
	// Absolute limits of the controller GDDRAM.
	maxPage   = 7
	maxColumn = 127
	maxWidth  = maxColumn + 1

	// Longest command write: control byte, opcode and up to 7 operands.
	maxCmdLen = 9
)

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value determines the number of refreshes between
// movement. The lower value, the higher speed.
const (
	FrameRate2   FrameRate = 7
	FrameRate3   FrameRate = 4
	FrameRate4   FrameRate = 5
	FrameRate5   FrameRate = 0
	FrameRate25  FrameRate = 6
	FrameRate64  FrameRate = 1
	FrameRate128 FrameRate = 2
	FrameRate256 FrameRate = 3
)

// Orientation is used for scrolling.
type Orientation byte

// Possible orientations for scrolling.
const (
	Left    Orientation = 0x27
	Right   Orientation = 0x26
	UpRight Orientation = 0x29
	UpLeft  Orientation = 0x2A
)

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	W:    128,
	H:    64,
	Addr: 0x3c,
}

// Opts selects the panel geometry and bus address.
type Opts struct {
	// W and H are the panel size in pixels. Supported sizes are 128x64 and
	// 128x32.
	W int
	H int
	// The 7 bits I2C address of the display. 0 means 0x3C.
	Addr uint16
}

// Dev is an open handle to the display controller.
//
// Dev is not safe for concurrent use. The Font set with SetFont is borrowed
// and must stay valid and unmodified while the Dev uses it.
type Dev struct {
	c *i2c.Dev

	// Display size controlled by the SSD1306.
	rect image.Rectangle

	// buffer[0] is the data control byte, so a page can be sent without
	// copying the pixels around it. buffer[1:] is the GDDRAM image: one byte
	// per column per page of 8 rows, LSB is the top row. See page 25.
	buffer []byte

	font *Font
}

// NewI2C returns a Dev object that communicates over I²C to a SSD1306 display
// controller.
//
// No bus traffic happens until Init is called. opts can be nil to use
// DefaultOpts.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0x00 {
		addr = DefaultOpts.Addr
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("ssd1306: address %#x is not a 7 bits address: %w", addr, ErrInvalidConfig)
	}
	if opts.W != 128 || (opts.H != 64 && opts.H != 32) {
		return nil, fmt.Errorf("ssd1306: unsupported size %dx%d: %w", opts.W, opts.H, ErrInvalidGeometry)
	}
	d := &Dev{
		c:      &i2c.Dev{Bus: b, Addr: addr},
		rect:   image.Rect(0, 0, opts.W, opts.H),
		buffer: make([]byte, opts.W*opts.H/8+1),
	}
	d.buffer[0] = i2cData
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%s, %s}", d.c, d.rect.Max)
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Image returns a view of the framebuffer. It shares memory with the Dev:
// drawing into it changes what the next Show sends. It returns nil once the
// Dev is closed.
func (d *Dev) Image() *image1bit.VerticalLSB {
	if d.buffer == nil {
		return nil
	}
	return &image1bit.VerticalLSB{Pix: d.buffer[1:], Stride: d.rect.Dx(), Rect: d.rect}
}

// Draw implements display.Drawer.
//
// It composites src into the framebuffer then sends the whole framebuffer, so
// once this function returns, the display is updated.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	img := d.Image()
	if img == nil {
		return fmt.Errorf("ssd1306: draw: %w", ErrNotReady)
	}
	draw.Src.Draw(img, r, src, sp)
	return d.Show()
}

// SetFont selects the font used by Print. nil unsets it.
func (d *Dev) SetFont(f *Font) {
	d.font = f
}

// Clear zeroes the framebuffer. It doesn't touch the display until Show.
func (d *Dev) Clear() error {
	if err := d.ready(); err != nil {
		return err
	}
	clear(d.buffer[1:])
	return nil
}

// SetArea restricts the horizontal and vertical addressing mode writes to a
// window of pages and columns, all bounds inclusive.
func (d *Dev) SetArea(startPage, endPage, startCol, endCol int) error {
	if err := d.ready(); err != nil {
		return err
	}
	lastPage := d.rect.Dy()/8 - 1
	lastCol := d.rect.Dx() - 1
	if lastPage > maxPage || lastCol > maxColumn {
		return fmt.Errorf("ssd1306: area: %w", ErrInvalidGeometry)
	}
	if startPage < 0 || startPage > endPage || endPage > lastPage {
		return fmt.Errorf("ssd1306: invalid page range [%d, %d]: %w", startPage, endPage, ErrInvalidConfig)
	}
	if startCol < 0 || startCol > endCol || endCol > lastCol {
		return fmt.Errorf("ssd1306: invalid column range [%d, %d]: %w", startCol, endCol, ErrInvalidConfig)
	}
	if err := d.sendCommand(_PAGEADDR, byte(startPage), byte(endPage)); err != nil {
		return err
	}
	return d.sendCommand(_COLUMNADDR, byte(startCol), byte(endCol))
}

// Show sends the whole framebuffer to the display, one page at a time.
//
// It switches the controller to page addressing mode and leaves it there. On
// error, the pages already sent are updated on the display and the others are
// not.
func (d *Dev) Show() error {
	if err := d.ready(); err != nil {
		return err
	}
	if err := d.sendCommand(_MEMORYMODE, byte(PageAddressing)); err != nil {
		return err
	}
	w := d.rect.Dx()
	pix := d.buffer[1:]
	var data [1 + maxWidth]byte
	data[0] = i2cData
	for page := 0; page < d.rect.Dy()/8; page++ {
		if err := d.sendCommand(_PAGESTARTADDRESS | byte(page)); err != nil {
			return err
		}
		if err := d.sendCommand(_SETLOWCOLUMN); err != nil {
			return err
		}
		if err := d.sendCommand(_SETHIGHCOLUMN); err != nil {
			return err
		}
		n := copy(data[1:], pix[page*w:(page+1)*w])
		if err := d.write(data[:1+n]); err != nil {
			return err
		}
	}
	return nil
}

// Scroll scrolls an horizontal band.
//
// Only one scrolling operation can happen at a time. Call StopScroll before
// Show, the controller RAM content is undefined while scrolling.
//
// Both startLine and endLine must be multiples of 8.
//
// Use -1 for endLine to extend to the bottom of the display.
func (d *Dev) Scroll(o Orientation, rate FrameRate, startLine, endLine int) error {
	if err := d.ready(); err != nil {
		return err
	}
	h := d.rect.Dy()
	if endLine == -1 {
		endLine = h
	}
	if startLine >= endLine {
		return fmt.Errorf("ssd1306: startLine (%d) must be lower than endLine (%d): %w", startLine, endLine, ErrInvalidConfig)
	}
	if startLine&7 != 0 || startLine < 0 || startLine >= h {
		return fmt.Errorf("ssd1306: invalid startLine %d: %w", startLine, ErrInvalidConfig)
	}
	if endLine&7 != 0 || endLine < 0 || endLine > h {
		return fmt.Errorf("ssd1306: invalid endLine %d: %w", endLine, ErrInvalidConfig)
	}

	startPage := uint8(startLine / 8)
	endPage := uint8(endLine / 8)
	if o == Left || o == Right {
		// page 28
		// <op>, dummy, <start page>, <rate>,  <end page>, <dummy>, <dummy>
		if err := d.sendCommand(byte(o), 0x00, startPage, byte(rate), endPage-1, 0x00, 0xFF); err != nil {
			return err
		}
		return d.sendCommand(_ACTIVATE_SCROLL)
	}
	// page 29
	// <op>, dummy, <start page>, <rate>,  <end page>, <offset>
	if err := d.sendCommand(byte(o), 0x00, startPage, byte(rate), endPage-1, 0x01); err != nil {
		return err
	}
	return d.sendCommand(_ACTIVATE_SCROLL)
}

// StopScroll stops any scrolling previously set.
//
// The RAM content must be rewritten with Show afterward.
func (d *Dev) StopScroll() error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.sendCommand(_DEACTIVATE_SCROLL)
}

// SetContrast changes the screen contrast, 1 to 255.
func (d *Dev) SetContrast(level byte) error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.sendCommand(_SETCONTRAST, level)
}

// Invert the display (black on white vs white on black).
func (d *Dev) Invert(blackOnWhite bool) error {
	if err := d.ready(); err != nil {
		return err
	}
	if blackOnWhite {
		return d.sendCommand(_INVERTDISPLAY)
	}
	return d.sendCommand(_NORMALDISPLAY)
}

// DisplayOn wakes the display up after Halt.
func (d *Dev) DisplayOn() error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.sendCommand(_DISPLAYON)
}

// Halt turns off the display. The controller keeps its RAM content.
func (d *Dev) Halt() error {
	if err := d.ready(); err != nil {
		return err
	}
	return d.sendCommand(_DISPLAYOFF)
}

// Close releases the framebuffer. It doesn't send anything to the display.
// Calling it more than once is a no-op.
func (d *Dev) Close() error {
	d.buffer = nil
	d.font = nil
	return nil
}

func (d *Dev) ready() error {
	if d.buffer == nil || d.rect.Empty() {
		return fmt.Errorf("ssd1306: %w", ErrNotReady)
	}
	return nil
}

// sendCommand sends one command and its operands as a single write.
func (d *Dev) sendCommand(c ...byte) error {
	var b [maxCmdLen]byte
	b[0] = i2cCmd
	n := copy(b[1:], c)
	return d.write(b[:1+n])
}

func (d *Dev) write(b []byte) error {
	return writeAll(d.c, b)
}

// writeAll sends b as one bus transaction and fails unless it went through
// whole.
func writeAll(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return fmt.Errorf("ssd1306: %w: %w", ErrTransport, err)
	}
	if n != len(b) {
		return fmt.Errorf("ssd1306: %w: wrote %d of %d bytes", ErrTransport, n, len(b))
	}
	return nil
}

var _ display.Drawer = &Dev{}
var _ conn.Resource = &Dev{}
