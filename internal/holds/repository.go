// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package holds

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/moov-io/onus/internal/secrets"
	"github.com/moov-io/onus/pkg/config"

	"github.com/go-kit/kit/log"
)

type Repository interface {
	Begin(ctx context.Context) (Session, error)
}

// Session wraps one database transaction. Either every hold from a payment
// file is staged or none are.
type Session interface {
	// HoldDate computes when staged holds release. The returned value is
	// the configured business date query's result with the cutoff time of
	// day appended.
	HoldDate(ctx context.Context) (string, error)

	Stage(ctx context.Context, hold Hold) error

	Commit() error
	Rollback() error
}

func NewRepo(logger log.Logger, db *sql.DB, cfg config.Holds, keeper *secrets.StringKeeper) Repository {
	return &sqlRepo{
		logger: logger,
		db:     db,
		cfg:    cfg,
		keeper: keeper,
	}
}

type sqlRepo struct {
	logger log.Logger
	db     *sql.DB
	cfg    config.Holds
	keeper *secrets.StringKeeper
}

func (r *sqlRepo) Begin(ctx context.Context) (Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("holds: begin: %v", err)
	}
	return &session{
		logger: r.logger,
		tx:     tx,
		cfg:    r.cfg,
		keeper: r.keeper,
	}, nil
}

type session struct {
	logger log.Logger
	tx     *sql.Tx
	cfg    config.Holds
	keeper *secrets.StringKeeper
}

func (s *session) HoldDate(ctx context.Context) (string, error) {
	var date string
	if err := s.tx.QueryRowContext(ctx, s.cfg.BusinessDateQuery, s.cfg.Days).Scan(&date); err != nil {
		return "", fmt.Errorf("business date: %v", err)
	}
	return date + " " + s.cfg.Cutoff, nil
}

func (s *session) Stage(ctx context.Context, hold Hold) error {
	accountNumber := hold.AccountNumber
	if s.keeper != nil {
		enc, err := s.keeper.EncryptString(accountNumber)
		if err != nil {
			return fmt.Errorf("stage: encrypt account number: %v", err)
		}
		accountNumber = enc
	}

	stmt, err := s.tx.PrepareContext(ctx, s.cfg.InsertQuery)
	if err != nil {
		return fmt.Errorf("stage: %v", err)
	}
	defer stmt.Close()

	// Core systems expect the amount in dollars.
	amount := fmt.Sprintf("%.2f", float64(hold.Amount)/100)

	reason := hold.Reason
	if reason == "" {
		reason = s.cfg.ReasonType
	}

	_, err = stmt.ExecContext(ctx, accountNumber, amount, reason, s.cfg.ReasonType, hold.HoldDate, hold.TraceNumber, s.cfg.Code)
	if err != nil {
		return fmt.Errorf("stage: trace=%s: %v", hold.TraceNumber, err)
	}

	s.logger.Log("holds", fmt.Sprintf("staged hold account=%s amount=%s trace=%s release=%s",
		MaskAccountNumber(hold.AccountNumber), amount, hold.TraceNumber, hold.HoldDate))

	return nil
}

func (s *session) Commit() error {
	return s.tx.Commit()
}

func (s *session) Rollback() error {
	return s.tx.Rollback()
}
