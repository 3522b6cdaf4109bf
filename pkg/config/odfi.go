// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"strings"
	"time"
)

type ODFI struct {
	// InboundPath is the remote directory scanned for payment files.
	InboundPath string

	// OutboundPath is the remote directory rewritten payment files and
	// settlement files are uploaded into.
	OutboundPath string

	// KeepRemoteFiles skips deleting payment files off the remote server
	// after they've been processed.
	KeepRemoteFiles bool

	// AllowedIPs is a comma separated list of IP addresses or CIDR ranges
	// remote connections are restricted to.
	AllowedIPs string

	FTP  *FTP
	SFTP *SFTP
}

func (cfg ODFI) Validate() error {
	if cfg.FTP != nil && cfg.SFTP != nil {
		return errors.New("specify only one of ftp or sftp")
	}
	if cfg.FTP != nil || cfg.SFTP != nil {
		if cfg.InboundPath == "" {
			return errors.New("missing inboundPath")
		}
		if cfg.OutboundPath == "" {
			return errors.New("missing outboundPath")
		}
	}
	return nil
}

func (cfg ODFI) SplitAllowedIPs() []string {
	if cfg.AllowedIPs != "" {
		return strings.Split(cfg.AllowedIPs, ",")
	}
	return nil
}

// Hostname returns the remote server files are exchanged with, or an
// empty string when no transport is configured.
func (cfg ODFI) Hostname() string {
	switch {
	case cfg.FTP != nil:
		return cfg.FTP.Hostname
	case cfg.SFTP != nil:
		return cfg.SFTP.Hostname
	}
	return ""
}

type FTP struct {
	Hostname string
	Username string
	Password string

	CAFilePath   string
	DialTimeout  time.Duration
	DisabledEPSV bool
}

func (cfg *FTP) CAFile() string {
	if cfg == nil {
		return ""
	}
	return cfg.CAFilePath
}

func (cfg *FTP) Timeout() time.Duration {
	if cfg == nil || cfg.DialTimeout == 0*time.Second {
		return 10 * time.Second
	}
	return cfg.DialTimeout
}

func (cfg *FTP) DisableEPSV() bool {
	if cfg == nil {
		return false
	}
	return cfg.DisabledEPSV
}

type SFTP struct {
	Hostname string
	Username string

	Password         string
	ClientPrivateKey string
	HostPublicKey    string

	DialTimeout           time.Duration
	MaxConnectionsPerFile int

	// MaxPacketSize is the maximum size for each packet sent over SFTP.
	// Their docs suggest lowering this on "failed to send packet header: EOF"
	// errors, so we're going to lower it by default (which is 32768).
	MaxPacketSize int
}

func (cfg *SFTP) Timeout() time.Duration {
	if cfg == nil || cfg.DialTimeout == 0*time.Second {
		return 10 * time.Second
	}
	return cfg.DialTimeout
}

func (cfg *SFTP) MaxConnections() int {
	if cfg == nil || cfg.MaxConnectionsPerFile <= 0 {
		return 8 // pkg/sftp's default is 64
	}
	return cfg.MaxConnectionsPerFile
}

func (cfg *SFTP) PacketSize() int {
	if cfg == nil || cfg.MaxPacketSize <= 0 {
		return 20480
	}
	return cfg.MaxPacketSize
}
