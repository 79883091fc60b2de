package hwio

// 8-bit operations
func GetBit8(v uint8, n uint) bool {
	return GetBiti8(v, n) != 0
}

func GetBiti8(v uint8, n uint) uint8 {
	return v >> (n) & 0x01
}

// 16-bit operations

// SwapBits01 exchanges bits 0 and 1 of v, leaving the others untouched.
func SwapBits01(v uint16) uint16 {
	return (v & 0xFFFC) | ((v >> 1) & 1) | ((v << 1) & 2)
}
