package gpio

import (
	"errors"
	"sync"
)

// FakeReader returns scripted samples. Once the script runs out the last
// sample repeats.
type FakeReader struct {
	mu        sync.Mutex
	samples   []Buttons
	index     int
	reads     int
	Closed    bool
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples ...Buttons) *FakeReader {
	return &FakeReader{samples: samples}
}

func (f *FakeReader) Read() (Buttons, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.ReadError != nil {
		return Buttons{}, f.ReadError
	}
	if len(f.samples) == 0 {
		return Buttons{}, errors.New("no samples configured")
	}
	b := f.samples[f.index]
	if f.index < len(f.samples)-1 {
		f.index++
	}
	return b, nil
}

// Script replaces the remaining samples.
func (f *FakeReader) Script(samples ...Buttons) {
	f.mu.Lock()
	f.samples = samples
	f.index = 0
	f.mu.Unlock()
}

// Reads returns how many times Read was called.
func (f *FakeReader) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *FakeReader) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
