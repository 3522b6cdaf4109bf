// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package transform

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/moov-io/onus/internal/gpgx"
	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
	"golang.org/x/crypto/openpgp"
)

type GPGEncryption struct {
	pubKey openpgp.EntityList
	signer *openpgp.Entity
}

func NewGPGEncryptor(logger log.Logger, cfg *config.GPG) (*GPGEncryption, error) {
	if cfg == nil {
		return nil, errors.New("missing GPG config")
	}

	out := &GPGEncryption{}

	pubKey, err := gpgx.ReadArmoredKeyFile(cfg.KeyFile)
	if err != nil {
		return nil, err
	}
	out.pubKey = pubKey

	if cfg.Signer != nil {
		privKey, err := gpgx.ReadPrivateKeyFile(cfg.Signer.KeyFile, []byte(cfg.Signer.Password()))
		if err != nil {
			return nil, err
		}
		if len(privKey) == 0 {
			return nil, fmt.Errorf("no signing key in %s", cfg.Signer.KeyFile)
		}
		out.signer = privKey[0]

		logger.Log("transform", fmt.Sprintf("signing uploads with key %s", fingerprint(out.signer)))
	}

	return out, nil
}

func (morph *GPGEncryption) Transform(res *Result) (*Result, error) {
	var bs []byte
	var err error
	if morph.signer != nil {
		bs, err = gpgx.EncryptSigned(res.Contents, morph.pubKey, morph.signer)
	} else {
		bs, err = gpgx.Encrypt(res.Contents, morph.pubKey)
	}
	if err != nil {
		return res, err
	}
	res.Encrypted = bs

	return res, nil
}

func (morph *GPGEncryption) String() string {
	return fmt.Sprintf("GPG{pubKey:%v signer:%v}", len(morph.pubKey) > 0, morph.signer != nil)
}

// fingerprint returns the uppercase hex fingerprint of an entity's primary key.
func fingerprint(key *openpgp.Entity) string {
	if key == nil || key.PrimaryKey == nil {
		return ""
	}
	return strings.ToUpper(hex.EncodeToString(key.PrimaryKey.Fingerprint[:]))
}
