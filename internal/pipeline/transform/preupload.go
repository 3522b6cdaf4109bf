// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

// Package transform mutates files on their way to the ODFI server.
package transform

import (
	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
)

// Result carries one output file through the transformers. Contents always
// holds the plaintext and Encrypted is filled in when encryption runs.
type Result struct {
	Filename  string
	Contents  []byte
	Encrypted []byte
}

type PreUpload interface {
	Transform(res *Result) (*Result, error)
}

// ForUpload iterates each transformer over a file and mutates the Result
// along the way.
func ForUpload(filename string, contents []byte, funcs []PreUpload) (*Result, error) {
	res := &Result{
		Filename: filename,
		Contents: contents,
	}

	var err error
	for i := range funcs {
		res, err = funcs[i].Transform(res)
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// Multi is a constructor from our config package for PreUpload transformers
func Multi(logger log.Logger, cfg *config.PreUpload) ([]PreUpload, error) {
	if cfg == nil {
		return nil, nil
	}
	var processors []PreUpload
	if cfg.GPG != nil {
		pc, err := NewGPGEncryptor(logger, cfg.GPG)
		if err != nil {
			return nil, err
		}
		processors = append(processors, pc)
	}
	return processors, nil
}
