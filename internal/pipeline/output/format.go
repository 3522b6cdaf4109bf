// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package output encodes transformed files for the ODFI server.
package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/moov-io/onus/internal/pipeline/transform"
	"github.com/moov-io/onus/pkg/config"
)

// Formatter is a structure for encoding an encrypted or plaintext file.
type Formatter interface {
	Format(buf *bytes.Buffer, res *transform.Result) error
}

func NewFormatter(cfg config.Output) (Formatter, error) {
	switch {
	case cfg.Format == "" || strings.EqualFold(cfg.Format, "text"):
		return &Text{}, nil

	case strings.EqualFold(cfg.Format, "base64"):
		return &Base64{}, nil

	case strings.EqualFold(cfg.Format, "encrypted-bytes"):
		return &Encrypted{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", cfg.Format)
}
