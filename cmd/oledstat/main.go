// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// oledstat shows the host CPU and memory usage on a SSD1306 display.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"time"

	"github.com/GermanBionicSystems/oled/asset"
	"github.com/GermanBionicSystems/oled/ssd1306"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	periphhost "periph.io/x/host/v3"
)

// sample is one reading of the host statistics.
type sample struct {
	hostname string
	cpu      float64
	mem      float64
	uptime   time.Duration
}

func read(interval time.Duration) (sample, error) {
	var s sample
	pct, err := cpu.Percent(interval, false)
	if err != nil {
		return s, err
	}
	if len(pct) != 0 {
		s.cpu = pct[0]
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return s, err
	}
	s.mem = vm.UsedPercent
	info, err := host.Info()
	if err != nil {
		return s, err
	}
	s.hostname = info.Hostname
	s.uptime = time.Duration(info.Uptime) * time.Second
	return s, nil
}

// render draws s in the framebuffer of dev, one line per statistic and a bar
// graph for the CPU usage.
func render(dev *ssd1306.Dev, s sample) error {
	if err := dev.Clear(); err != nil {
		return err
	}
	f := asset.Basic7x13()
	lines := []string{
		s.hostname,
		fmt.Sprintf("CPU %5.1f%%", s.cpu),
		fmt.Sprintf("MEM %5.1f%%", s.mem),
		fmt.Sprintf("UP  %s", s.uptime.Truncate(time.Minute)),
	}
	h := dev.Bounds().Dy()
	for i, l := range lines {
		y := i * f.Height
		if y+f.Height > h {
			break
		}
		if err := dev.Print(l, 0, y); err != nil {
			return err
		}
	}
	// CPU bar on the right edge, bottom up.
	img := dev.Image()
	w := dev.Bounds().Dx()
	filled := min(max(int(s.cpu*float64(h)/100), 0), h)
	draw.Draw(img, image.Rect(w-4, h-filled, w, h), &image.Uniform{image1bit.On}, image.Point{}, draw.Src)
	return dev.Show()
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use")
	addr := flag.Uint("addr", 0x3c, "I²C address of the display")
	height := flag.Int("height", 64, "display height, 32 or 64")
	interval := flag.Duration("interval", 2*time.Second, "refresh interval")
	count := flag.Int("count", 0, "number of refreshes, 0 for infinite")
	flag.Parse()
	a, err := i2cAddr(*addr)
	if err != nil {
		return err
	}

	if _, err := periphhost.Init(); err != nil {
		return err
	}
	b, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer b.Close()
	dev, err := ssd1306.NewI2C(b, &ssd1306.Opts{W: 128, H: *height, Addr: a})
	if err != nil {
		return err
	}
	defer dev.Close()
	cfg := ssd1306.DefaultConfig()
	if err := dev.Init(&cfg); err != nil {
		return err
	}
	dev.SetFont(asset.Basic7x13())

	for i := 0; *count == 0 || i < *count; i++ {
		// cpu.Percent blocks for interval.
		s, err := read(*interval)
		if err != nil {
			return err
		}
		if err := render(dev, s); err != nil {
			return err
		}
	}
	return dev.Halt()
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
	log.SetPrefix("oledstat: ")
	if err := mainImpl(); err != nil {
		log.Fatal(err)
	}
}
