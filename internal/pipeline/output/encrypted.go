// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package output

import (
	"bytes"
	"errors"

	"github.com/moov-io/onus/internal/pipeline/transform"
)

type Encrypted struct{}

func (*Encrypted) Format(buf *bytes.Buffer, res *transform.Result) error {
	if len(res.Encrypted) == 0 {
		return errors.New("no encrypted bytes, is pre-upload GPG configured?")
	}
	buf.Write(res.Encrypted)
	return nil
}
