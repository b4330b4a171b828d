package decode

import (
	"encoding/binary"
	"fmt"
)

// Int32s reinterprets data as little-endian signed 32-bit integers.
func Int32s(data []byte) ([]int32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: byte length %d is not a multiple of 4", ErrDataMalformed, len(data))
	}
	out := make([]int32, len(data)/4)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out, nil
}

// Bytes is the inverse of Int32s.
func Bytes(tokens []int32) []byte {
	out := make([]byte, len(tokens)*4)
	for i, v := range tokens {
		binary.LittleEndian.PutUint32(out[i*4:], uint32(v))
	}
	return out
}
