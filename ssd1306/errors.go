// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ssd1306

import "errors"

// Errors returned by Dev. They are always wrapped with more context, use
// errors.Is to test for them.
var (
	// ErrInvalidGeometry is returned for an unsupported panel size.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrNotReady is returned when the framebuffer was released or never
	// allocated.
	ErrNotReady = errors.New("device not ready")
	// ErrInvalidConfig is returned when a Config field is out of range or the
	// Config is missing.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrInvalidBitmap is returned for a bitmap without data or with a zero
	// dimension.
	ErrInvalidBitmap = errors.New("invalid bitmap")
	// ErrInvalidFont is returned when no font is set or its tables are
	// inconsistent.
	ErrInvalidFont = errors.New("invalid font")
	// ErrTransport is returned when the bus did not acknowledge a whole write.
	ErrTransport = errors.New("transport failure")
)
