// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moov-io/base/admin"
	"github.com/moov-io/onus"
	"github.com/moov-io/onus/internal/database"
	"github.com/moov-io/onus/internal/holds"
	"github.com/moov-io/onus/internal/pipeline"
	"github.com/moov-io/onus/internal/runs"
	"github.com/moov-io/onus/internal/secrets"
	"github.com/moov-io/onus/pkg/config"
	configadmin "github.com/moov-io/onus/pkg/config/admin"
	"github.com/moov-io/onus/pkg/upload"
	"github.com/moov-io/onus/pkg/util"
)

var (
	flagConfigFile = flag.String("config", "", "Filepath for config file to load")
	flagLogFormat  = flag.String("log.format", "", "Format for log lines (Options: json, plain)")

	flagInputFile     = flag.String("file", "", "Process one payment file off disk and exit")
	flagEffectiveDate = flag.String("effective-date", "", "Posting date for settlement lines, YYYYMMDD or YYYY-MM-DD (default: next banking day)")
	flagReportOnly    = flag.Bool("report-only", false, "Write output files without committing holds")
)

func main() {
	flag.Parse()

	configFilepath := util.Or(os.Getenv("CONFIG_FILE"), *flagConfigFile)
	cfg, err := config.FromFile(configFilepath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if *flagLogFormat != "" {
		cfg.Logging.Format = *flagLogFormat
		cfg = config.SetupLogger(cfg)
	}
	if *flagReportOnly || util.Yes(os.Getenv("REPORT_ONLY")) {
		cfg.Extraction.ReportOnly = true
	}
	cfg.Logger.Log("startup", fmt.Sprintf("Starting onus version %s", onus.Version))

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	// connect to and migrate the database
	db, err := database.New(ctx, cfg.Logger, cfg.Database)
	if err != nil {
		panic(fmt.Sprintf("error creating database: %v", err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			cfg.Logger.Log("exit", err)
		}
	}()

	keeper := setupAccountNumberKeeper(ctx, cfg)

	holdRepo := holds.NewRepo(cfg.Logger, db, cfg.Holds, keeper)
	runRepo := runs.NewRepo(cfg.Logger, db)

	processor, err := pipeline.NewProcessor(cfg, holdRepo, runRepo)
	if err != nil {
		panic(fmt.Sprintf("error creating processor: %v", err))
	}
	defer processor.Close()
	if v := util.Or(os.Getenv("EFFECTIVE_DATE"), *flagEffectiveDate); v != "" {
		when := util.FirstParsedTime(v, util.YYYYMMDDTimeFormat, util.ISO8601DateFormat)
		if when.IsZero() {
			panic(fmt.Sprintf("unable to parse effective date %q", v))
		}
		processor.EffectiveDate = when.Format(util.YYYYMMDDTimeFormat)
	}

	// One-shot mode processes a local file and exits.
	if *flagInputFile != "" {
		if _, err := processor.ProcessFile(ctx, *flagInputFile); err != nil {
			cfg.Logger.Log("exit", err)
			processor.Close()
			db.Close()
			os.Exit(1)
		}
		return
	}

	// Listen for application termination.
	errs := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errs <- fmt.Errorf("%s", <-c)
	}()

	// Spin up admin HTTP server
	adminAddr := cfg.Admin.BindAddress
	if v := os.Getenv("HTTP_ADMIN_BIND_ADDRESS"); v != "" {
		adminAddr = v
	}
	adminServer := admin.NewServer(adminAddr)
	adminServer.AddVersionHandler(onus.Version) // Setup 'GET /version'
	adminServer.AddLivenessCheck("database", db.Ping)
	go func() {
		cfg.Logger.Log("admin", fmt.Sprintf("listening on %s", adminServer.BindAddr()))
		if err := adminServer.Listen(); err != nil {
			err = fmt.Errorf("problem starting admin http: %v", err)
			cfg.Logger.Log("admin", err)
			errs <- err
		}
	}()
	defer adminServer.Shutdown()

	configadmin.RegisterRoutes(adminServer, cfg)
	runs.RegisterRoutes(cfg.Logger, adminServer, runRepo)

	// Watch the ODFI server for payment files to extract.
	agent, err := upload.New(cfg.Logger, cfg.ODFI)
	if err != nil {
		panic(fmt.Sprintf("error connecting to ODFI server: %v", err))
	}
	defer agent.Close()
	adminServer.AddLivenessCheck("odfi", agent.Ping)

	scheduler, err := pipeline.NewScheduler(cfg, processor, agent)
	if err != nil {
		panic(fmt.Sprintf("error creating scheduler: %v", err))
	}
	defer scheduler.Shutdown()
	scheduler.RegisterRoutes(adminServer)
	go func() {
		if err := scheduler.Start(); err != nil {
			errs <- err
		}
	}()

	if err := <-errs; err != nil {
		cfg.Logger.Log("exit", err)
	}
}

func setupAccountNumberKeeper(ctx context.Context, cfg *config.Config) *secrets.StringKeeper {
	enc := cfg.Holds.Encryption
	if enc == nil || enc.Symmetric == nil {
		return nil
	}
	keeper, err := secrets.OpenKeeper(ctx, enc.Symmetric.KeyURI)
	if err != nil {
		panic(fmt.Sprintf("error opening secrets keeper: %v", err))
	}
	return secrets.NewStringKeeper(keeper, 10*time.Second)
}
