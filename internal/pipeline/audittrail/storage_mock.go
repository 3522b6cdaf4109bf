// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package audittrail

import (
	"sync"
)

type MockStorage struct {
	Err error

	mu    sync.Mutex
	saved []string
}

func (s *MockStorage) Close() error {
	return s.Err
}

func (s *MockStorage) SaveFile(filename string, data []byte) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	s.saved = append(s.saved, filename)
	s.mu.Unlock()
	return nil
}

// SavedFilenames returns what SaveFile was called with, in order.
func (s *MockStorage) SavedFilenames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.saved))
	copy(out, s.saved)
	return out
}
