// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package history keeps the most recent samples of each dashboard metric.
package history

import "fmt"

// DefaultSize is the number of samples kept per metric when New is given a
// non-positive size.
const DefaultSize = 20

// History holds one fixed-capacity ring buffer per metric key. The set of
// keys is fixed at construction.
//
// History is owned by the render loop and is not safe for concurrent use.
type History struct {
	size  int
	keys  []string
	rings map[string]*ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
}

// New returns a History keeping up to size samples for each of keys.
func New(size int, keys ...string) *History {
	if size <= 0 {
		size = DefaultSize
	}
	h := &History{
		size:  size,
		rings: make(map[string]*ringBuffer, len(keys)),
	}
	for _, k := range keys {
		if _, ok := h.rings[k]; ok {
			continue
		}
		h.keys = append(h.keys, k)
		h.rings[k] = &ringBuffer{data: make([]float64, size)}
	}
	return h
}

// Size is the per-key capacity.
func (h *History) Size() int {
	return h.size
}

// Keys returns the registered keys in registration order.
func (h *History) Keys() []string {
	return append([]string(nil), h.keys...)
}

// Push appends v to key's samples, evicting the oldest sample at capacity.
// Pushing to a key that was not registered with New panics.
func (h *History) Push(key string, v float64) {
	r, ok := h.rings[key]
	if !ok {
		panic(fmt.Sprintf("history: push to unregistered key %q", key))
	}
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Read returns a copy of key's samples, oldest first. An unregistered key
// has no samples.
func (h *History) Read(key string) []float64 {
	r, ok := h.rings[key]
	if !ok || r.count == 0 {
		return nil
	}
	out := make([]float64, r.count)
	start := (r.head - r.count + len(r.data)) % len(r.data)
	for i := range out {
		out[i] = r.data[(start+i)%len(r.data)]
	}
	return out
}

// Last returns the newest sample of key, or false when there is none.
func (h *History) Last(key string) (float64, bool) {
	r, ok := h.rings[key]
	if !ok || r.count == 0 {
		return 0, false
	}
	return r.data[(r.head-1+len(r.data))%len(r.data)], true
}

// Len returns the number of samples held for key.
func (h *History) Len(key string) int {
	if r, ok := h.rings[key]; ok {
		return r.count
	}
	return 0
}
