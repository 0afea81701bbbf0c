package speech

import (
	"bytes"
	"encoding/binary"
)

// Gemini TTS returns raw 16-bit little-endian mono PCM at 24 kHz.
const (
	pcmSampleRate = 24000
	pcmChannels   = 1
	pcmBits       = 16
)

// pcmToWAV prefixes raw PCM with a canonical 44-byte RIFF header.
func pcmToWAV(pcm []byte, sampleRate, channels, bits int) []byte {
	blockAlign := channels * bits / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bits))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
