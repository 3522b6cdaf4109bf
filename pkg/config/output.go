// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"strings"
)

type Output struct {
	// Directory is where rewritten payment files and settlement files
	// are written. Created on startup if it doesn't exist.
	Directory string

	// Format encodes files sent to the ODFI server. One of "text"
	// (default), "base64", or "encrypted-bytes". Local copies under
	// Directory are always plaintext.
	Format string
}

func (cfg Output) Validate() error {
	if cfg.Directory == "" {
		return errors.New("missing directory")
	}
	switch strings.ToLower(cfg.Format) {
	case "", "text", "base64", "encrypted-bytes":
		return nil
	}
	return fmt.Errorf("unknown format %q", cfg.Format)
}
