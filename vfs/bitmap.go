package vfs

import (
	"bytes"
	"errors"
)

// Bitmap tracks used blocks. Bits are stored MSB first: block i lives in
// byte i/8 under mask 0x80>>(i%8).
type Bitmap []byte

func NewBitmap(length int) Bitmap {
	return make(Bitmap, NeededMemoryForBitmap(length))
}

func NeededMemoryForBitmap(length int) int {
	return (length + 7) / 8
}

func (b Bitmap) Len() int {
	return len(b) * 8
}

func (b Bitmap) SetBit(position int, value byte) error {
	if value != 0 && value != 1 {
		return errors.New("value can be only 0 or 1")
	}

	posInSlice := position / 8
	if position < 0 || posInSlice >= len(b) {
		return OutOfRange{position, b.Len() - 1}
	}

	mask := byte(0x80) >> uint(position%8)
	if value == 1 {
		b[posInSlice] |= mask
	} else {
		b[posInSlice] &^= mask
	}

	return nil
}

func (b Bitmap) GetBit(position int) (byte, error) {
	posInSlice := position / 8
	if position < 0 || posInSlice >= len(b) {
		return 0, OutOfRange{position, b.Len() - 1}
	}

	if b[posInSlice]&(byte(0x80)>>uint(position%8)) != 0 {
		return 1, nil
	}
	return 0, nil
}

// IsSet reports whether position is marked used. Positions outside the
// bitmap count as used so that no allocation ever runs past the disk.
func (b Bitmap) IsSet(position int) bool {
	value, err := b.GetBit(position)
	return err != nil || value == 1
}

// SetRange sets count bits starting at start to value.
func (b Bitmap) SetRange(start, count int, value byte) error {
	for i := start; i < start+count; i++ {
		if err := b.SetBit(i, value); err != nil {
			return err
		}
	}
	return nil
}

// RangeFree reports whether count bits starting at start are all clear.
func (b Bitmap) RangeFree(start, count int) bool {
	for i := start; i < start+count; i++ {
		if b.IsSet(i) {
			return false
		}
	}
	return true
}

func (b Bitmap) Equal(other Bitmap) bool {
	return bytes.Equal(b, other)
}
