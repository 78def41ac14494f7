// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oleddemo prints text and a vector drawing on a SSD1306 display.
//
// With -preview, nothing is sent to hardware and the frame is rendered in the
// terminal instead.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/GermanBionicSystems/oled/asset"
	"github.com/GermanBionicSystems/oled/screen2d"
	"github.com/GermanBionicSystems/oled/ssd1306"
	"github.com/fogleman/gg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	addr := flag.Uint("addr", 0x3c, "I²C address of the display")
	height := flag.Int("height", 64, "display height, 32 or 64")
	contrast := flag.Uint("contrast", 0x7f, "contrast, 1 to 255")
	text := flag.String("text", "Hello from Go!", "text to print")
	preview := flag.Bool("preview", false, "render in the terminal instead of the display")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %v", flag.Args())
	}
	if *contrast < 1 || *contrast > 255 {
		return fmt.Errorf("invalid contrast %d", *contrast)
	}
	a, err := i2cAddr(*addr)
	if err != nil {
		return err
	}

	var bus i2c.Bus
	if *preview {
		bus = &i2ctest.Record{}
	} else {
		if _, err := host.Init(); err != nil {
			return err
		}
		b, err := i2creg.Open(*busName)
		if err != nil {
			return err
		}
		defer b.Close()
		bus = b
	}

	opts := ssd1306.Opts{W: 128, H: *height, Addr: a}
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return err
	}
	defer dev.Close()
	cfg := ssd1306.DefaultConfig()
	cfg.Contrast = byte(*contrast)
	if err := dev.Init(&cfg); err != nil {
		return err
	}

	dev.SetFont(asset.Basic7x13())
	if err := dev.Print(*text, 0, 0); err != nil {
		return err
	}
	logo := drawLogo(opts.H - 14)
	if err := dev.DrawBitmap(logo, (opts.W-logo.W)/2, 14); err != nil {
		return err
	}
	if err := dev.Show(); err != nil {
		return err
	}

	if *preview {
		p := screen2d.New(&screen2d.Opts{W: opts.W, H: opts.H})
		if _, err := p.Write(dev.Image().Pix); err != nil {
			return err
		}
		return p.Halt()
	}
	return nil
}

// drawLogo draws a size*size ring with a cross in it.
func drawLogo(size int) *ssd1306.Bitmap {
	s := float64(size)
	dc := gg.NewContext(size, size)
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(s/2, s/2, s/2-2)
	dc.Stroke()
	dc.DrawLine(s/4, s/4, 3*s/4, 3*s/4)
	dc.DrawLine(s/4, 3*s/4, 3*s/4, s/4)
	dc.Stroke()
	return asset.BitmapFromImage(dc.Image())
}

// i2cAddr narrows the -addr flag, rejecting what doesn't fit in 7 bits.
func i2cAddr(v uint) (uint16, error) {
	if v > 0x7f {
		return 0, fmt.Errorf("invalid I²C address %#x", v)
	}
	return uint16(v), nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("oleddemo: ")
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
