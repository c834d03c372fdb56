// Package wav encodes and decodes canonical 44-byte-header PCM-16 WAV files.
package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"voice-assistant/internal/domain"
)

const (
	HeaderSize    = 44
	bitsPerSample = 16
	pcmFormat     = 1
	fmtChunkSize  = 16

	encodeScale = 32767.0
	decodeScale = 32768.0
)

// header mirrors the on-disk layout field by field.
type header struct {
	ChunkID       [4]byte // "RIFF"
	ChunkSize     uint32  // 36 + data size
	Format        [4]byte // "WAVE"
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

func newHeader(channels, sampleRate, dataSize int) header {
	return header{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     uint32(36 + dataSize),
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: fmtChunkSize,
		AudioFormat:   pcmFormat,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate * channels * 2),
		BlockAlign:    uint16(channels * 2),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: uint32(dataSize),
	}
}

// Encode never fails: an empty buffer produces a header-only file.
func Encode(buf domain.SampleBuffer) []byte {
	channels := buf.Channels
	if channels < 1 {
		channels = 1
	}

	dataSize := len(buf.Samples) * 2
	out := bytes.NewBuffer(make([]byte, 0, HeaderSize+dataSize))

	// Writes into a bytes.Buffer cannot fail.
	_ = binary.Write(out, binary.LittleEndian, newHeader(channels, buf.SampleRate, dataSize))

	pcm := make([]int16, len(buf.Samples))
	for i, s := range buf.Samples {
		pcm[i] = quantize(s)
	}
	_ = binary.Write(out, binary.LittleEndian, pcm)

	return out.Bytes()
}

func quantize(s float32) int16 {
	v := float64(s)
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-1.0, math.Min(1.0, v))
	return int16(math.Round(v * encodeScale))
}

// Decode reads the format from the fixed header offsets and reinterprets
// everything from byte 44 as int16 samples. A trailing odd byte or partial
// frame is dropped rather than rejected.
func Decode(data []byte) (domain.SampleBuffer, error) {
	if len(data) < HeaderSize {
		return domain.SampleBuffer{}, &domain.MalformedAudioError{
			Reason: fmt.Sprintf("need at least %d bytes, got %d", HeaderSize, len(data)),
		}
	}

	channels := int(binary.LittleEndian.Uint16(data[22:24]))
	sampleRate := int(binary.LittleEndian.Uint32(data[24:28]))
	if channels == 0 {
		return domain.SampleBuffer{}, &domain.MalformedAudioError{Reason: "header declares zero channels"}
	}

	payload := data[HeaderSize:]
	count := len(payload) / 2
	count -= count % channels

	samples := make([]float32, count)
	for i := 0; i < count; i++ {
		v := int16(binary.LittleEndian.Uint16(payload[i*2:]))
		samples[i] = float32(float64(v) / decodeScale)
	}

	return domain.SampleBuffer{
		Samples:    samples,
		Channels:   channels,
		SampleRate: sampleRate,
	}, nil
}

type Metadata struct {
	Channels      int     `json:"channels"`
	SampleRate    int     `json:"sample_rate"`
	BitsPerSample int     `json:"bits_per_sample"`
	DataSize      int     `json:"data_size_bytes"`
	Duration      float64 `json:"duration_seconds"`
}

// Info validates the container markers and reports the declared format.
func Info(data []byte) (*Metadata, error) {
	if len(data) < HeaderSize {
		return nil, &domain.MalformedAudioError{
			Reason: fmt.Sprintf("need at least %d bytes, got %d", HeaderSize, len(data)),
		}
	}

	var h header
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	switch {
	case string(h.ChunkID[:]) != "RIFF":
		return nil, &domain.MalformedAudioError{Reason: "missing RIFF marker"}
	case string(h.Format[:]) != "WAVE":
		return nil, &domain.MalformedAudioError{Reason: "missing WAVE marker"}
	case string(h.Subchunk1ID[:]) != "fmt ":
		return nil, &domain.MalformedAudioError{Reason: "missing fmt chunk"}
	case string(h.Subchunk2ID[:]) != "data":
		return nil, &domain.MalformedAudioError{Reason: "missing data chunk"}
	}

	meta := &Metadata{
		Channels:      int(h.NumChannels),
		SampleRate:    int(h.SampleRate),
		BitsPerSample: int(h.BitsPerSample),
		DataSize:      int(h.Subchunk2Size),
	}
	if h.ByteRate > 0 {
		meta.Duration = float64(h.Subchunk2Size) / float64(h.ByteRate)
	}
	return meta, nil
}

// Codec adapts the package functions to a value that can be injected.
type Codec struct{}

func (Codec) Encode(buf domain.SampleBuffer) []byte {
	return Encode(buf)
}

func (Codec) Decode(data []byte) (domain.SampleBuffer, error) {
	return Decode(data)
}
