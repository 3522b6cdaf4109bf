// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package upload

import (
	"bytes"
	"io/ioutil"
	"sync"
)

type MockAgent struct {
	InboundFiles  []File
	UploadedFiles []File // in upload order
	DeletedFiles  []string
	mu            sync.RWMutex // protects all fields

	Err error
}

func (a *MockAgent) GetInboundFiles() ([]File, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.Err != nil {
		return nil, a.Err
	}
	return a.InboundFiles, nil
}

func (a *MockAgent) UploadFile(f File) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return a.Err
	}

	// read f.Contents before callers close the underlying descriptor
	bs, _ := ioutil.ReadAll(f.Contents)
	a.UploadedFiles = append(a.UploadedFiles, File{
		Filename: f.Filename,
		Contents: ioutil.NopCloser(bytes.NewReader(bs)),
	})
	return nil
}

func (a *MockAgent) Delete(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.Err != nil {
		return a.Err
	}
	a.DeletedFiles = append(a.DeletedFiles, path)
	return nil
}

func (a *MockAgent) InboundPath() string {
	return "inbound/"
}

func (a *MockAgent) OutboundPath() string {
	return "outbound/"
}

func (a *MockAgent) Ping() error {
	return a.Err
}

func (a *MockAgent) Close() error {
	return nil
}
