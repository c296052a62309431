package sqlite

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/custodia-labs/minereg/internal/core/domain"
)

// float64SliceToBytes encodes a vector as little-endian float64 values.
func float64SliceToBytes(floats []float64) []byte {
	buf := make([]byte, len(floats)*8)
	for i, f := range floats {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

// bytesToFloat64Slice decodes a vector written by float64SliceToBytes.
func bytesToFloat64Slice(data []byte) ([]float64, error) {
	if len(data)%8 != 0 {
		return nil, fmt.Errorf("embedding blob length %d is not a multiple of 8", len(data))
	}
	floats := make([]float64, len(data)/8)
	for i := range floats {
		floats[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:]))
	}
	return floats, nil
}

func marshalMetadata(m domain.ChunkMetadata) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshalling metadata: %w", err)
	}
	return string(b), nil
}

func unmarshalMetadata(s string) (domain.ChunkMetadata, error) {
	var m domain.ChunkMetadata
	if s == "" {
		return m, nil
	}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return m, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return m, nil
}
