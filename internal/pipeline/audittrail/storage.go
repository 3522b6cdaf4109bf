// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package audittrail

import (
	"errors"

	"github.com/moov-io/onus/pkg/config"
)

// Storage is an interface for keeping copies of every file this service
// reads or writes. Records retention like this is often a requirement of
// ODFI agreements.
//
// Local output files under output.directory are not part of this storage.
type Storage interface {
	// SaveFile copies one file, encrypting it when a key is configured.
	SaveFile(filename string, data []byte) error

	Close() error
}

func NewStorage(cfg *config.AuditTrail) (Storage, error) {
	if cfg == nil {
		return &MockStorage{}, nil
	}
	if cfg.BucketURI != "" {
		return newBlobStorage(cfg)
	}
	return nil, errors.New("unknown storage config")
}
