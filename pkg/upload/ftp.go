// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package upload

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"

	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
	"github.com/jlaffaye/ftp"
)

// FTPTransferAgent is an Agent over FTP.
type FTPTransferAgent struct {
	conn   *ftp.ServerConn
	cfg    config.ODFI
	logger log.Logger
	mu     sync.Mutex // the underlying FTP client isn't goroutine safe
}

func newFTPTransferAgent(logger log.Logger, cfg config.ODFI) (*FTPTransferAgent, error) {
	if cfg.FTP == nil {
		return nil, errors.New("nil FTP config")
	}
	agent := &FTPTransferAgent{
		cfg:    cfg,
		logger: logger,
	}

	if err := rejectOutboundIPRange(cfg.SplitAllowedIPs(), cfg.FTP.Hostname); err != nil {
		return nil, fmt.Errorf("ftp: %s is not allowed: %v", cfg.FTP.Hostname, err)
	}

	_, err := agent.connection() // initial connection

	return agent, err
}

// connection returns an ftp.ServerConn connected to the remote server,
// reconnecting when the kept connection stops responding.
//
// connection must be called under the agent's mutex.
func (agent *FTPTransferAgent) connection() (*ftp.ServerConn, error) {
	if agent == nil || agent.cfg.FTP == nil {
		return nil, errors.New("nil agent / config")
	}

	if agent.conn != nil {
		if err := agent.conn.NoOp(); err == nil {
			return agent.conn, nil
		}
		agent.conn.Quit()
	}

	opts := []ftp.DialOption{
		ftp.DialWithTimeout(agent.cfg.FTP.Timeout()),
		ftp.DialWithDisabledEPSV(agent.cfg.FTP.DisableEPSV()),
	}
	tlsOpt, err := tlsDialOption(agent.cfg.FTP.CAFile())
	if err != nil {
		return nil, err
	}
	if tlsOpt != nil {
		opts = append(opts, *tlsOpt)
	}

	conn, err := ftp.Dial(agent.cfg.FTP.Hostname, opts...)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(agent.cfg.FTP.Username, agent.cfg.FTP.Password); err != nil {
		return nil, err
	}
	agent.conn = conn

	return agent.conn, nil
}

func tlsDialOption(caFilePath string) (*ftp.DialOption, error) {
	if caFilePath == "" {
		return nil, nil
	}
	bs, err := ioutil.ReadFile(caFilePath)
	if err != nil {
		return nil, fmt.Errorf("tlsDialOption: failed to read %s: %v", caFilePath, err)
	}
	pool, err := x509.SystemCertPool()
	if pool == nil || err != nil {
		pool = x509.NewCertPool()
	}
	if ok := pool.AppendCertsFromPEM(bs); !ok {
		return nil, fmt.Errorf("tlsDialOption: problem with AppendCertsFromPEM from %s", caFilePath)
	}
	opt := ftp.DialWithTLS(&tls.Config{
		RootCAs: pool,
	})
	return &opt, nil
}

func (agent *FTPTransferAgent) Ping() error {
	if agent == nil {
		return errors.New("nil FTPTransferAgent")
	}

	agent.mu.Lock()
	defer agent.mu.Unlock()

	conn, err := agent.connection()
	if err != nil {
		return err
	}
	return conn.NoOp()
}

func (agent *FTPTransferAgent) Close() error {
	if agent == nil || agent.conn == nil {
		return nil
	}

	agent.mu.Lock()
	defer agent.mu.Unlock()

	conn, err := agent.connection()
	if err != nil {
		return err
	}
	return conn.Quit()
}

func (agent *FTPTransferAgent) InboundPath() string {
	return agent.cfg.InboundPath
}

func (agent *FTPTransferAgent) OutboundPath() string {
	return agent.cfg.OutboundPath
}

func (agent *FTPTransferAgent) Delete(path string) error {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	if path == "" || strings.HasSuffix(path, "/") {
		return fmt.Errorf("FTPTransferAgent: invalid path %v", path)
	}

	conn, err := agent.connection()
	if err != nil {
		return err
	}
	return conn.Delete(path)
}

// UploadFile writes the File under the outbound directory.
//
// The File's contents are always closed.
func (agent *FTPTransferAgent) UploadFile(f File) error {
	defer f.Close()

	agent.mu.Lock()
	defer agent.mu.Unlock()

	conn, err := agent.connection()
	if err != nil {
		return err
	}

	wd, err := conn.CurrentDir()
	if err != nil {
		return err
	}
	if err := conn.ChangeDir(agent.cfg.OutboundPath); err != nil {
		return err
	}
	defer func(path string) {
		// Return to our previous directory when initially called
		if err := conn.ChangeDir(path); err != nil {
			agent.logger.Log("ftp", fmt.Sprintf("problem restoring working directory: %v", err))
		}
	}(wd)

	// Take the base of f.Filename to refuse a write like '../../../../etc/passwd'.
	return conn.Stor(filepath.Base(f.Filename), f.Contents)
}

func (agent *FTPTransferAgent) GetInboundFiles() ([]File, error) {
	return agent.readFiles(agent.cfg.InboundPath)
}

func (agent *FTPTransferAgent) readFiles(path string) ([]File, error) {
	agent.mu.Lock()
	defer agent.mu.Unlock()

	conn, err := agent.connection()
	if err != nil {
		return nil, err
	}

	wd, err := conn.CurrentDir()
	if err != nil {
		return nil, err
	}
	defer func(path string) {
		// Return to our previous directory when initially called
		if err := conn.ChangeDir(path); err != nil {
			agent.logger.Log("ftp", fmt.Sprintf("problem restoring working directory: %v", err))
		}
	}(wd)
	if err := conn.ChangeDir(path); err != nil {
		return nil, err
	}

	items, err := conn.NameList("")
	if err != nil {
		return nil, err
	}
	var files []File
	for i := range items {
		resp, err := conn.Retr(items[i])
		if err != nil {
			return nil, fmt.Errorf("problem retrieving %s: %v", items[i], err)
		}
		r, err := agent.readResponse(resp)
		if err != nil {
			return nil, fmt.Errorf("problem reading %s: %v", items[i], err)
		}
		files = append(files, File{
			Filename: items[i],
			Contents: r,
		})
	}
	return files, nil
}

func (*FTPTransferAgent) readResponse(resp *ftp.Response) (io.ReadCloser, error) {
	defer resp.Close()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, resp)
	if n == 0 || err != nil {
		return ioutil.NopCloser(&buf), fmt.Errorf("n=%d error=%v", n, err)
	}
	return ioutil.NopCloser(&buf), nil
}
