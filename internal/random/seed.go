// Package random provides seed generation for simulation runs that were not
// given an explicit seed.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// Derive mixes a run seed with a day and a slot index into a per-resolution
// seed. The same inputs always give the same output and neighbouring slots
// do not produce correlated streams.
func Derive(base int64, day, index int) int64 {
	x := uint64(base) ^ uint64(day)<<32 ^ uint64(index)
	// splitmix64 finaliser
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}
