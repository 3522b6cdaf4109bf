// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package sshx parses SSH public keys from the formats operators tend to
// paste into config files.
package sshx

import (
	"encoding/base64"

	"golang.org/x/crypto/ssh"
)

// ReadPubKey parses data as an SSH public key. Accepted formats:
//
//   - a line from an authorized_keys file, per the sshd(8) manual page
//   - the SSH wire format of RFC 4253, section 6.6
//   - either of the above wrapped in another layer of base64, which is
//     how keys survive YAML and environment variables
func ReadPubKey(data []byte) (ssh.PublicKey, error) {
	decoded, err := base64.StdEncoding.DecodeString(string(data))
	if len(decoded) > 0 && err == nil {
		if pub, err := readAuthorizedKey(decoded); pub != nil && err == nil {
			return pub, nil
		}
		return ssh.ParsePublicKey(decoded)
	}

	if pub, err := readAuthorizedKey(data); pub != nil && err == nil {
		return pub, nil
	}
	return ssh.ParsePublicKey(data)
}

func readAuthorizedKey(data []byte) (ssh.PublicKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey(data)
	return pub, err
}
