// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package upload moves files between us and the ODFI's server. An Agent
// lists and downloads inbound payment files and uploads the rewritten
// payment and settlement files after extraction.
package upload

import (
	"errors"
	"io"

	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
)

// File is one remote file. Contents is read once and closed by whoever
// consumes the File.
type File struct {
	Filename string
	Contents io.ReadCloser
}

func (f File) Close() error {
	return f.Contents.Close()
}

// Agent is the transport for exchanging files with the ODFI's server.
type Agent interface {
	GetInboundFiles() ([]File, error)
	UploadFile(f File) error
	Delete(path string) error

	InboundPath() string
	OutboundPath() string

	Ping() error
	Close() error
}

// New returns the Agent the ODFI config calls for. Exactly one of the ftp
// or sftp sections picks the protocol.
func New(logger log.Logger, cfg config.ODFI) (Agent, error) {
	switch {
	case cfg.FTP != nil:
		return newFTPTransferAgent(logger, cfg)

	case cfg.SFTP != nil:
		return newSFTPTransferAgent(logger, cfg)
	}
	return nil, errors.New("upload: no ftp or sftp configuration")
}
