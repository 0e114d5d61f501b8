package eeprom

import (
	"errors"
	"fmt"
)

var (
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrWriteTimeout      = errors.New("write timeout")
	ErrVerifyMismatch    = errors.New("verify mismatch")
)

// RangeError reports a request that reaches outside the readable window. It
// is returned before any bus activity.
type RangeError struct {
	Start  uint16
	Length int
	Limit  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range 0x%04X+%d exceeds accessible window 0x0000-0x%04X", e.Start, e.Length, e.Limit-1)
}

func (e *RangeError) Unwrap() error {
	return ErrAddressOutOfRange
}

// WriteError reports a byte write that never settled to the written value.
type WriteError struct {
	Address uint16
	Data    uint8
	// Last is the final value sampled while polling.
	Last uint8
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write failed at 0x%04X: expected 0x%02X, got 0x%02X", e.Address, e.Data, e.Last)
}

func (e *WriteError) Unwrap() error {
	return ErrWriteTimeout
}

type MismatchError struct {
	Address  uint16
	Expected uint8
	Actual   uint8
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("verify failed at 0x%04X: expected 0x%02X, got 0x%02X", e.Address, e.Expected, e.Actual)
}

func (e *MismatchError) Unwrap() error {
	return ErrVerifyMismatch
}
