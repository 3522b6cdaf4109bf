// Copyright 2020 The Moov Authors
// Use of this source code is governed by an Apache License
// license that can be found in the LICENSE file.

package runs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/moov-io/base/admin"
	moovhttp "github.com/moov-io/base/http"

	"github.com/go-kit/kit/log"
	"github.com/gorilla/mux"
)

// RegisterRoutes adds read-only run bookkeeping endpoints onto the admin
// HTTP server.
func RegisterRoutes(logger log.Logger, svc *admin.Server, repo Repository) {
	svc.AddHandler("/runs", getRecentRuns(logger, repo))
	svc.AddHandler("/runs/{runID}", getRun(logger, repo))
}

func getRecentRuns(logger log.Logger, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			moovhttp.Problem(w, fmt.Errorf("unsupported HTTP verb %s", r.Method))
			return
		}

		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, _ := strconv.Atoi(v); n > 0 && n <= 100 {
				limit = n
			}
		}

		runs, err := repo.RecentRuns(limit)
		if err != nil {
			moovhttp.Problem(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(runs)
	}
}

func getRun(logger log.Logger, repo Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			moovhttp.Problem(w, fmt.Errorf("unsupported HTTP verb %s", r.Method))
			return
		}

		runID := mux.Vars(r)["runID"]
		if runID == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		run, err := repo.GetRun(runID)
		if err != nil {
			moovhttp.Problem(w, err)
			return
		}
		if run == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(run)
	}
}
