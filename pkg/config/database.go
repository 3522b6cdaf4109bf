// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/moov-io/onus/pkg/util"
)

type Database struct {
	SQLite *SQLite
	MySQL  *MySQL
}

type SQLite struct {
	Path string
}

type MySQL struct {
	Address  string
	Username string
	Password string
	Database string
}

func (cfg *MySQL) GetPassword() string {
	return util.Or(os.Getenv("MYSQL_PASSWORD"), cfg.Password)
}
