package oto

import (
	"encoding/binary"
	"math"

	"github.com/nuottila/rulla"
)

const bytesPerFrame = 8 // two channels of 32-bit floats

// floatBufferToBytes converts stereo float samples to the interleaved
// 32-bit little-endian float format oto consumes. dst must have room for
// bytesPerFrame bytes per frame.
func floatBufferToBytes(buf rulla.AudioBuffer, dst []byte) {
	for i, s := range buf {
		binary.LittleEndian.PutUint32(dst[i*bytesPerFrame:], math.Float32bits(s[0]))
		binary.LittleEndian.PutUint32(dst[i*bytesPerFrame+4:], math.Float32bits(s[1]))
	}
}
