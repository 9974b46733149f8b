package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxSnapshotSize bounds an encoded snapshot when the store is built
// with a non-positive limit.
const DefaultMaxSnapshotSize = 16 << 10

var (
	// ErrSnapshotTooLarge is returned by Put when the encoded value exceeds the store limit.
	ErrSnapshotTooLarge = errors.New("snapshot exceeds size limit")
	// ErrSnapshotCorrupt is returned by Get when the stored value cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
)

// Encode serializes v as JSON and enforces maxSize.
func Encode[T any](v *T, maxSize int) ([]byte, error) {
	if v == nil {
		return nil, errors.New("nil snapshot")
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if maxSize > 0 && len(data) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSnapshotTooLarge, len(data), maxSize)
	}
	return data, nil
}

// Decode parses a stored snapshot.
func Decode[T any](data []byte) (*T, error) {
	if len(data) == 0 {
		return nil, ErrSnapshotCorrupt
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return &v, nil
}
