package changeset

import "math"

type (
	IntegerValue interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	}
	FloatValue interface {
		~float32 | ~float64
	}
)

// IntWord packs an integer into a word, sign-extending signed types so that
// WordInt recovers the original value.
func IntWord[T IntegerValue](v T) uint64 {
	return uint64(v)
}

func WordInt[T IntegerValue](w uint64) T {
	return T(w)
}

// FloatWord packs a float into a word via its float64 bit pattern. float32
// values widen exactly, so the round trip through WordFloat is lossless.
func FloatWord[T FloatValue](v T) uint64 {
	return math.Float64bits(float64(v))
}

func WordFloat[T FloatValue](w uint64) T {
	return T(math.Float64frombits(w))
}

func BoolWord(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func WordBool(w uint64) bool {
	return w != 0
}
