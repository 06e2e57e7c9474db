package testutil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrInjected is returned by FakeBackend when a failure is configured.
var ErrInjected = errors.New("injected media store failure")

// FakeBackend is an in-memory media store that records every call.
type FakeBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
	removes []string

	// FailPutAfter fails every Put once this many have succeeded; negative disables.
	FailPutAfter int
	FailRemove   bool
	PutDelay     time.Duration
	PingErr      error
}

// NewFakeBackend returns a backend with no failures configured.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{objects: map[string][]byte{}, FailPutAfter: -1}
}

func (f *FakeBackend) Put(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if f.PutDelay > 0 {
		select {
		case <-time.After(f.PutDelay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailPutAfter >= 0 && len(f.puts) >= f.FailPutAfter {
		return "", ErrInjected
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[key] = b
	f.puts = append(f.puts, key)
	return fmt.Sprintf("https://media.test/%s", key), nil
}

func (f *FakeBackend) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removes = append(f.removes, key)
	if f.FailRemove {
		return ErrInjected
	}
	delete(f.objects, key)
	return nil
}

func (f *FakeBackend) Ping(ctx context.Context) error {
	return f.PingErr
}

// Puts lists the keys successfully stored, in call order.
func (f *FakeBackend) Puts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}

// Removes lists every key passed to Remove, in call order.
func (f *FakeBackend) Removes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.removes...)
}

// Has reports whether key is currently stored.
func (f *FakeBackend) Has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

// Len is the number of stored objects.
func (f *FakeBackend) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// Seed stores an object directly, as if uploaded by an earlier request.
func (f *FakeBackend) Seed(keys ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.objects[k] = []byte("seed")
	}
}
