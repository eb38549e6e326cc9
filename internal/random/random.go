// Package random provides a small, seedable generator whose sequence is
// stable across platforms and releases, so a seed always reproduces the same
// level layout.
package random

import "math"

// golden is the mulberry32 increment. Streams of the same seed are offset by
// whole multiples of it.
const golden uint32 = 0x6d2b79f5

// Mulberry32 is a 32-bit state generator. It implements rand.Source64.
type Mulberry32 struct {
	state uint32
}

// New returns the generator for seed. Stream i yields the same sequence as
// stream 0 with its first i values skipped.
func New(seed, stream uint32) *Mulberry32 {
	return &Mulberry32{state: seed + stream*golden}
}

// Uint32 returns the next raw 32-bit value.
func (m *Mulberry32) Uint32() uint32 {
	m.state += golden
	t := m.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns a value in [0, 1).
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / (1 << 32)
}

// Range returns a whole number in [min, min+span], rounded like the level
// generator expects.
func (m *Mulberry32) Range(min, span float64) float64 {
	return min + math.Round(m.Float64()*span)
}

func (m *Mulberry32) Uint64() uint64 {
	return uint64(m.Uint32())<<32 | uint64(m.Uint32())
}

func (m *Mulberry32) Int63() int64 {
	return int64(m.Uint64() >> 1)
}

func (m *Mulberry32) Seed(seed int64) {
	m.state = uint32(seed)
}

// Clamp limits value to [min, max].
func Clamp(min, value, max float64) float64 {
	return math.Max(min, math.Min(value, max))
}
