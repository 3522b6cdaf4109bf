// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package output

import (
	"bytes"
	"fmt"

	"github.com/moov-io/onus/internal/pipeline/transform"
)

type Text struct{}

// Format writes the plaintext file contents.
func (*Text) Format(buf *bytes.Buffer, res *transform.Result) error {
	if _, err := buf.Write(res.Contents); err != nil {
		return fmt.Errorf("unable to buffer %s: %v", res.Filename, err)
	}
	return nil
}
