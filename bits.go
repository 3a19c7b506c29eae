package changeset

import "math/bits"

// BitWords returns the number of uint32 words needed to hold n bits.
// Generated stores use it to size their presence bitmaps.
func BitWords(n int) int {
	return (n + 31) / 32
}

func TestBit(words []uint32, i int) bool {
	return words[i/32]&(1<<(i%32)) != 0
}

func SetBit(words []uint32, i int) {
	words[i/32] |= 1 << (i % 32)
}

func ClearBit(words []uint32, i int) {
	words[i/32] &^= 1 << (i % 32)
}

func CountBits(words []uint32) int {
	var n int
	for _, w := range words {
		n += bits.OnesCount32(w)
	}
	return n
}
