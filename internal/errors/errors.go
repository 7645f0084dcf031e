// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors holds the structured errors reported when pistats cannot
// start. They print as:
//
//	✗ <what failed>
//
//	  <cause>
//
//	  <how to fix it>
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes.
const (
	ErrConfig = "CONFIG"
	ErrPanel  = "PANEL"
	ErrBus    = "BUS"
)

// Error is a startup failure with an optional cause and suggestion.
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps err with a code, message and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// PanelOpen describes a failure to reach the LCD hardware.
func PanelOpen(err error) *Error {
	return WrapWithCode(err, ErrPanel,
		"Couldn't open the LCD panel",
		"Check that SPI is enabled (dtparam=spi=on) and that the RST, DC and BL pins are wired as configured")
}

// PanelInit describes a failure while bringing the panel out of reset.
func PanelInit(err error) *Error {
	return WrapWithCode(err, ErrBus,
		"Couldn't initialize the LCD panel",
		"Check the SPI wiring and try a lower --speed")
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}
	return b.String()
}

// Unwrap returns the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err is, or wraps, an *Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
