// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package oled is a container for the SSD1306 monochrome OLED driver and its
// companion packages.
//
// ssd1306 is the driver, asset packs bitmaps and fonts for it and screen2d
// previews a framebuffer in the terminal.
package oled
