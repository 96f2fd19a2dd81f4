// Package wire holds the small set of Wayland wire-format primitives the
// compositor core shares with the external protocol dispatcher. Message
// framing and decoding are not implemented here: the dispatcher decodes
// requests to typed enums and hands the compositor an opaque object handle,
// so the core only needs a common vocabulary for naming objects and
// fixed-point values, not a codec.
package wire

// ObjectID identifies a Wayland protocol object. ID 0 is null/invalid; ID 1
// is always wl_display.
type ObjectID uint32

// Opcode identifies a Wayland request or event within an interface.
type Opcode uint16

// Fixed is a Wayland fixed-point number in 24.8 format: the upper 24 bits
// hold the integer part, the lower 8 bits the fractional part.
type Fixed int32

// FixedFromFloat converts a float64 to Fixed.
func FixedFromFloat(f float64) Fixed {
	return Fixed(f * 256.0)
}

// Float returns the Fixed value as a float64.
func (f Fixed) Float() float64 {
	return float64(f) / 256.0
}

// FixedFromInt converts an integer to Fixed.
func FixedFromInt(i int32) Fixed {
	return Fixed(i << 8)
}

// Int returns the integer part of the Fixed value, truncating the fraction.
func (f Fixed) Int() int32 {
	return int32(f) / 256
}
