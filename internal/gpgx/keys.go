// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package gpgx reads armored OpenPGP keys and encrypts file contents with
// them before they leave our control, either for upload or for the audit
// trail bucket.
package gpgx

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"

	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
)

// ReadArmoredKeyFile reads path and parses it as an armored GPG key ring.
func ReadArmoredKeyFile(path string) (openpgp.EntityList, error) {
	bs, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return openpgp.ReadArmoredKeyRing(bytes.NewReader(bs))
}

// ReadPrivateKeyFile reads an armored GPG private key from path and unlocks
// the primary key and every subkey with password.
func ReadPrivateKeyFile(path string, password []byte) (openpgp.EntityList, error) {
	entityList, err := ReadArmoredKeyFile(path)
	if err != nil {
		return nil, err
	}
	if len(entityList) == 0 || entityList[0].PrivateKey == nil {
		return nil, fmt.Errorf("no private key in %s", path)
	}

	entity := entityList[0]
	if err := entity.PrivateKey.Decrypt(password); err != nil {
		return nil, fmt.Errorf("decrypting private key: %v", err)
	}
	for _, subkey := range entity.Subkeys {
		if subkey.PrivateKey != nil {
			if err := subkey.PrivateKey.Decrypt(password); err != nil {
				return nil, fmt.Errorf("decrypting subkey: %v", err)
			}
		}
	}

	return entityList, nil
}

// Encrypt encrypts msg to every public key and returns the armored message.
func Encrypt(msg []byte, pubkeys openpgp.EntityList) ([]byte, error) {
	return encrypt(msg, pubkeys, nil)
}

// EncryptSigned encrypts msg to every public key and signs it with the
// unlocked private key of signer.
func EncryptSigned(msg []byte, pubkeys openpgp.EntityList, signer *openpgp.Entity) ([]byte, error) {
	if signer == nil || signer.PrivateKey == nil {
		return nil, errors.New("missing signing key")
	}
	return encrypt(msg, pubkeys, signer)
}

func encrypt(msg []byte, pubkeys openpgp.EntityList, signer *openpgp.Entity) ([]byte, error) {
	var encrypted bytes.Buffer
	w, err := openpgp.Encrypt(&encrypted, pubkeys, signer, nil, nil)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(msg); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var armored bytes.Buffer
	aw, err := armor.Encode(&armored, "PGP MESSAGE", nil)
	if err != nil {
		return nil, err
	}
	if _, err := aw.Write(encrypted.Bytes()); err != nil {
		return nil, err
	}
	if err := aw.Close(); err != nil {
		return nil, err
	}

	return armored.Bytes(), nil
}

// Decrypt reads an armored message encrypted to the private key held in keys.
func Decrypt(cipherArmored []byte, keys openpgp.EntityList) ([]byte, error) {
	if len(keys) == 0 || keys[0].PrivateKey == nil {
		return nil, errors.New("requires a private key")
	}

	block, err := armor.Decode(bytes.NewReader(cipherArmored))
	if err != nil {
		return nil, err
	}

	md, err := openpgp.ReadMessage(block.Body, keys, nil, nil)
	if err != nil {
		return nil, err
	}
	out, err := ioutil.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, err
	}
	// The signature trailer arrives after the body, so this check has to
	// come once the body is fully read.
	if md.SignatureError != nil {
		return nil, md.SignatureError
	}

	return out, nil
}
