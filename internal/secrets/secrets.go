// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package secrets

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"gocloud.dev/secrets"

	// register the base64key, awskms, and gcpkms schemes
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/localsecrets"
)

// StringKeeper wraps a secrets.Keeper but accepts and returns strings, which are easier
// to store in a database or pass around. Encrypted and decryptable values must be in
// base64.StdEncoding format.
type StringKeeper struct {
	keeper *secrets.Keeper
	enc    *base64.Encoding

	timeout time.Duration
}

func NewStringKeeper(keeper *secrets.Keeper, timeout time.Duration) *StringKeeper {
	return &StringKeeper{
		keeper:  keeper,
		enc:     base64.StdEncoding,
		timeout: timeout,
	}
}

func (str *StringKeeper) Close() error {
	if str == nil {
		return nil
	}
	return str.keeper.Close()
}

// EncryptString accepts a string a returns the base64.StdEncoding encoding of its encrypted contents
func (str *StringKeeper) EncryptString(in string) (string, error) {
	if str == nil {
		return "", errors.New("nil StringKeeper")
	}

	ctx, cancelFn := context.WithTimeout(context.Background(), str.timeout)
	defer cancelFn()

	bs, err := str.keeper.Encrypt(ctx, []byte(in))
	if err != nil {
		return "", err
	}
	return str.enc.EncodeToString(bs), nil
}

// DecryptString accepts a base64.StdEncoding string and returns the plaintext decrypted version
func (str *StringKeeper) DecryptString(in string) (string, error) {
	if str == nil {
		return "", errors.New("nil StringKeeper")
	}

	ctx, cancelFn := context.WithTimeout(context.Background(), str.timeout)
	defer cancelFn()

	bs, err := str.enc.DecodeString(in)
	if err != nil {
		return "", err
	}
	bs, err = str.keeper.Decrypt(ctx, bs)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

// OpenKeeper returns a Go Cloud Development Kit (Go CDK) Keeper object which can be used
// to encrypt and decrypt byte slices.
// Checkout https://gocloud.dev/ref/secrets/ for more details.
//
// Local keys are opened from URIs of the form
//  base64key://smGbjm71Nxd1Ig5FS0wj9SlbzAIrnolCz9bQQ6uAhl4=
// where the hostname is a base64-encoded key, of length 32 bytes when decoded.
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	if keyURI == "" {
		return nil, errors.New("missing key URI")
	}
	return secrets.OpenKeeper(ctx, keyURI)
}
