// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import "fmt"

// AddressingMode is the GDDRAM memory addressing mode. See page 34.
type AddressingMode byte

// Memory addressing modes.
const (
	HorizontalAddressing AddressingMode = 0x00
	VerticalAddressing   AddressingMode = 0x01
	PageAddressing       AddressingMode = 0x02
)

// FadeMode is the fade out / blinking mode. See page 45 of the application
// note.
type FadeMode byte

// Fade out and blinking modes.
const (
	FadeDisabled FadeMode = 0x00
	FadeOut      FadeMode = 0x20
	Blink        FadeMode = 0x30
)

// VCOMHLevel is the V_COMH deselect level. See page 32.
type VCOMHLevel byte

// V_COMH deselect levels, as a fraction of Vcc.
const (
	VCOMH065 VCOMHLevel = 0x00
	VCOMH077 VCOMHLevel = 0x20
	VCOMH083 VCOMHLevel = 0x30
)

// Config is the controller configuration sent by Init.
//
// The multiplex ratio and the COM pins alternative configuration are derived
// from the panel height, so one Config fits both supported sizes.
type Config struct {
	// Contrast is 1 to 255. Power on reset value is 0x7F.
	Contrast byte
	// Inverse lights pixels that are off in RAM.
	Inverse bool
	// Addressing is the addressing mode set at init. Show switches to
	// PageAddressing regardless.
	Addressing AddressingMode
	// SegmentRemap maps column 127 to SEG0, mirroring horizontally.
	SegmentRemap bool
	// COMScanRemapped scans from COM[N-1] to COM0, mirroring vertically.
	COMScanRemapped bool
	// COMLeftRightRemap swaps the left and right COM pins. Try toggling this if
	// the top and bottom halves of the display are swapped.
	COMLeftRightRemap bool
	// ClockDivide is the display clock divide ratio minus one, 0 to 15.
	ClockDivide byte
	// OscillatorFreq is the oscillator frequency setting, 0 to 15.
	OscillatorFreq byte
	// PreChargePhase1 and PreChargePhase2 are in DCLK, 1 to 15. Phase 1 goes
	// in the low nibble of the command operand, as on page 32.
	PreChargePhase1 byte
	PreChargePhase2 byte
	VCOMH           VCOMHLevel
	Fade            FadeMode
	// FadeInterval is the number of frames per step minus one divided by 8,
	// 0 to 15.
	FadeInterval byte
	Zoom         bool
	// ChargePump enables the internal DC-DC, needed when the panel has no
	// external Vcc.
	ChargePump bool
}

// DefaultConfig returns the recommended configuration for the usual 3.3V
// modules that rely on the internal charge pump.
func DefaultConfig() Config {
	return Config{
		Contrast:        0x7F,
		Addressing:      HorizontalAddressing,
		SegmentRemap:    true,
		COMScanRemapped: true,
		ClockDivide:     0,
		OscillatorFreq:  15,
		PreChargePhase1: 1,
		PreChargePhase2: 15,
		VCOMH:           VCOMH077,
		Fade:            FadeDisabled,
		ChargePump:      true,
	}
}

// Validate returns an error wrapping ErrInvalidConfig if a field is out of
// its range.
func (c *Config) Validate() error {
	var b [initCmdLen]byte
	_, err := encodeInit(b[:0], c, 64)
	return err
}

// initCmdLen is the length of the write sent by Init, control byte included.
const initCmdLen = 30

// Init resets the framebuffer and configures the controller, turning the
// display on.
//
// The whole sequence is validated before anything is sent, so an invalid
// Config leaves the bus untouched.
func (d *Dev) Init(cfg *Config) error {
	if err := d.ready(); err != nil {
		return err
	}
	if cfg == nil {
		return fmt.Errorf("ssd1306: missing config: %w", ErrInvalidConfig)
	}
	var b [initCmdLen]byte
	cmd, err := encodeInit(b[:0], cfg, d.rect.Dy())
	if err != nil {
		return err
	}
	d.buffer[0] = i2cData
	clear(d.buffer[1:])
	return d.write(cmd)
}

// encodeInit appends the initialization sequence to b. Page 64 has the
// recommended flow and page 28 lists all the commands.
func encodeInit(b []byte, c *Config, height int) ([]byte, error) {
	b = append(b, i2cCmd, _DISPLAYOFF)

	if c.COMScanRemapped {
		b = append(b, _COMSCANDEC)
	} else {
		b = append(b, _COMSCANINC)
	}

	mux := height - 1
	if mux < 1 || mux > 64 {
		return nil, fmt.Errorf("ssd1306: multiplex ratio %d out of [1, 64]: %w", mux, ErrInvalidConfig)
	}
	b = append(b, _SETMULTIPLEX, byte(mux))

	if c.ClockDivide > 15 {
		return nil, fmt.Errorf("ssd1306: clock divide ratio %d out of [0, 15]: %w", c.ClockDivide, ErrInvalidConfig)
	}
	if c.OscillatorFreq > 15 {
		return nil, fmt.Errorf("ssd1306: oscillator frequency %d out of [0, 15]: %w", c.OscillatorFreq, ErrInvalidConfig)
	}
	b = append(b, _SETDISPLAYCLOCKDIV, c.ClockDivide|c.OscillatorFreq<<4)

	if c.Inverse {
		b = append(b, _INVERTDISPLAY)
	} else {
		b = append(b, _NORMALDISPLAY)
	}
	b = append(b, _DISPLAYALLON_RESUME, _SETSTARTLINE)
	b = append(b, _SETCONTRAST, c.Contrast)

	if c.Fade != FadeDisabled && c.Fade != FadeOut && c.Fade != Blink {
		return nil, fmt.Errorf("ssd1306: fade mode %#x: %w", byte(c.Fade), ErrInvalidConfig)
	}
	if c.FadeInterval > 15 {
		return nil, fmt.Errorf("ssd1306: fade interval %d out of [0, 15]: %w", c.FadeInterval, ErrInvalidConfig)
	}
	b = append(b, _FADEBLINK, byte(c.Fade)|c.FadeInterval)

	zoom := byte(0x00)
	if c.Zoom {
		zoom = 0x01
	}
	b = append(b, _ZOOMIN, zoom)
	b = append(b, _SETDISPLAYOFFSET, 0x00)

	if c.Addressing > PageAddressing {
		return nil, fmt.Errorf("ssd1306: addressing mode %d: %w", c.Addressing, ErrInvalidConfig)
	}
	b = append(b, _MEMORYMODE, byte(c.Addressing))

	if c.PreChargePhase1 < 1 || c.PreChargePhase1 > 15 {
		return nil, fmt.Errorf("ssd1306: pre-charge phase 1 %d out of [1, 15]: %w", c.PreChargePhase1, ErrInvalidConfig)
	}
	if c.PreChargePhase2 < 1 || c.PreChargePhase2 > 15 {
		return nil, fmt.Errorf("ssd1306: pre-charge phase 2 %d out of [1, 15]: %w", c.PreChargePhase2, ErrInvalidConfig)
	}
	b = append(b, _SETPRECHARGE, c.PreChargePhase1|c.PreChargePhase2<<4)

	if c.VCOMH != VCOMH065 && c.VCOMH != VCOMH077 && c.VCOMH != VCOMH083 {
		return nil, fmt.Errorf("ssd1306: VCOMH level %#x: %w", byte(c.VCOMH), ErrInvalidConfig)
	}
	b = append(b, _SETVCOMDETECT, byte(c.VCOMH))

	// See page 40. 128x32 panels are wired sequentially.
	pins := byte(0x02)
	if height > 32 {
		pins |= 0x10
	}
	if c.COMLeftRightRemap {
		pins |= 0x20
	}
	b = append(b, _SETCOMPINS, pins)

	if c.SegmentRemap {
		b = append(b, _SETSEGMENTREMAP)
	} else {
		b = append(b, _SEGREMAP)
	}

	// Page 62 of the charge pump application note.
	if c.ChargePump {
		b = append(b, _CHARGEPUMP, 0x14)
	} else {
		b = append(b, _CHARGEPUMP, 0x10)
	}
	return append(b, _DISPLAYON), nil
}
