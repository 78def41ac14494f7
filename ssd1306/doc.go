// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ssd1306 controls a 128x64 or 128x32 monochrome OLED display driven
// by a SSD1306 controller over I²C.
//
// The driver keeps a framebuffer in memory. Clear, DrawBitmap, Print and the
// image returned by Image only change that framebuffer; Show sends all of it
// to the display. Every operation is synchronous and a failed bus write is
// returned as is, nothing is retried.
//
// Fonts and bitmaps are pre-rasterized 1 bit per pixel assets, see Font and
// Bitmap. Package asset builds them from images and font faces.
//
// Some boards expose a RES / Reset pin. If present, it must normally be
// High. When set to Low (Ground), it enables the reset circuitry. It can be
// used externally to this driver, if used, Init must be called again.
//
// # Datasheets
//
// Product page:
//
// http://www.solomon-systech.com/en/product/display-ic/oled-driver-controller/ssd1306/
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
package ssd1306
