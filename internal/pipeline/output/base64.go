// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package output

import (
	"bytes"
	"encoding/base64"

	"github.com/moov-io/onus/internal/pipeline/transform"
)

type Base64 struct{}

// Format converts any encrypted bytes into standard Base64 encoding. If no
// encrypted bytes are passed then the plaintext contents are encoded.
func (*Base64) Format(buf *bytes.Buffer, res *transform.Result) error {
	if len(res.Encrypted) > 0 {
		buf.WriteString(base64.StdEncoding.EncodeToString(res.Encrypted))
	} else {
		buf.WriteString(base64.StdEncoding.EncodeToString(res.Contents))
	}
	return nil
}
