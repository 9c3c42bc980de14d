package camera

import (
	"fmt"
	"strconv"

	"github.com/openastro/poago/pkg/driver"
)

// ValueTag identifies which native type a ConfigValue holds.
type ValueTag uint8

const (
	// TagInt marks a 64-bit signed integer value.
	TagInt ValueTag = iota + 1

	// TagFloat marks a 64-bit float value.
	TagFloat

	// TagBool marks a boolean value.
	TagBool
)

// String returns the tag name.
func (t ValueTag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagFloat:
		return "float"
	case TagBool:
		return "bool"
	default:
		return "invalid"
	}
}

// ConfigValue is a tagged config slot value. The native representation
// is an untyped 8-byte union; the tag exists only on this side of the
// boundary and is fixed per ConfigKind, so extraction with the wrong
// tag indicates a caller bug and panics rather than decoding garbage.
type ConfigValue struct {
	tag  ValueTag
	bits driver.RawValue
}

// IntValue builds an integer ConfigValue.
func IntValue(v int64) ConfigValue {
	return ConfigValue{tag: TagInt, bits: driver.RawInt(v)}
}

// FloatValue builds a float ConfigValue.
func FloatValue(v float64) ConfigValue {
	return ConfigValue{tag: TagFloat, bits: driver.RawFloat(v)}
}

// BoolValue builds a boolean ConfigValue.
func BoolValue(v bool) ConfigValue {
	return ConfigValue{tag: TagBool, bits: driver.RawBool(driver.MakeBool(v))}
}

// Tag returns the tag the value was constructed with.
func (v ConfigValue) Tag() ValueTag {
	return v.tag
}

// Int extracts the integer value. Panics if the value does not hold an
// integer.
func (v ConfigValue) Int() int64 {
	v.mustHold(TagInt)
	return v.bits.Int()
}

// Float extracts the float value. Panics if the value does not hold a
// float.
func (v ConfigValue) Float() float64 {
	v.mustHold(TagFloat)
	return v.bits.Float()
}

// Bool extracts the boolean value. Panics if the value does not hold a
// boolean.
func (v ConfigValue) Bool() bool {
	v.mustHold(TagBool)
	return v.bits.Bool().IsTrue()
}

func (v ConfigValue) mustHold(tag ValueTag) {
	if v.tag != tag {
		panic(fmt.Sprintf("camera: config value holds %s, extracted as %s", v.tag, tag))
	}
}

// raw returns the untyped union representation sent to the driver.
func (v ConfigValue) raw() driver.RawValue {
	return v.bits
}

// valueFromRaw decodes the untyped union using the given tag.
func valueFromRaw(raw driver.RawValue, tag ValueTag) ConfigValue {
	switch tag {
	case TagInt:
		return IntValue(raw.Int())
	case TagFloat:
		return FloatValue(raw.Float())
	case TagBool:
		return BoolValue(raw.Bool().IsTrue())
	default:
		panic(fmt.Sprintf("camera: invalid value tag %d", tag))
	}
}

// String formats the value for diagnostics.
func (v ConfigValue) String() string {
	switch v.tag {
	case TagInt:
		return strconv.FormatInt(v.bits.Int(), 10)
	case TagFloat:
		return strconv.FormatFloat(v.bits.Float(), 'g', -1, 64)
	case TagBool:
		return strconv.FormatBool(v.bits.Bool().IsTrue())
	default:
		return "<invalid>"
	}
}
