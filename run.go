/*
Copyright 2024 Treasury Ops Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package taxrecon

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/model"
)

// RunOptions selects the tenants and the date window of one run.
type RunOptions struct {
	Tenants []config.Tenant
	Window  model.DateWindow
}

// MonthWindow computes the check window for a month offset: 0 is the
// current calendar month, negative offsets reach back. The window spans the
// first day of the month through end-of-day on its last day.
func MonthWindow(ref time.Time, offset int) model.DateWindow {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location()).AddDate(0, offset, 0)
	return model.DateWindow{
		From: first,
		To:   first.AddDate(0, 1, 0).Add(-time.Millisecond),
	}
}

// failedTenant remembers a first-pass failure: the tenant to retry and the
// index of the result to replace. Tracking IDs explicitly avoids re-deriving
// the retry set by filtering the result list.
type failedTenant struct {
	index  int
	tenant config.Tenant
}

// Run processes the tenant list sequentially in input order, isolating
// per-tenant failures as ERROR results, then retries every failed tenant
// exactly once in original relative order, replacing its result wholesale.
// A result is guaranteed for every requested tenant; only startup
// connectivity failures ever abort a run, and those happen before Run.
func (r *Reconciler) Run(ctx context.Context, opts RunOptions) *model.RunResult {
	start := time.Now()
	runID := model.GenerateUUIDWithSuffix("run")

	logrus.WithFields(logrus.Fields{
		"run":     runID,
		"tenants": len(opts.Tenants),
		"window":  opts.Window.String(),
	}).Info("reconciliation run started")

	results := make([]model.TenantCheckResult, 0, len(opts.Tenants))
	var failed []failedTenant

	for i, tenant := range opts.Tenants {
		result, err := r.CheckTenant(ctx, tenant, opts.Window)
		if err != nil {
			logrus.WithField("tenant", tenant.ID).Warnf("tenant check failed, will retry once: %v", err)
			result = errorResult(tenant.ID, err)
			failed = append(failed, failedTenant{index: i, tenant: tenant})
		}
		results = append(results, result)
	}

	for _, f := range failed {
		result, err := r.CheckTenant(ctx, f.tenant, opts.Window)
		if err != nil {
			logrus.WithField("tenant", f.tenant.ID).Errorf("tenant retry failed: %v", err)
			result = errorResult(f.tenant.ID, err)
		}
		results[f.index] = result
	}

	summary := summarize(results, opts.Window, start)
	logrus.WithFields(logrus.Fields{
		"run":        runID,
		"matched":    summary.Matched,
		"mismatched": summary.Mismatched,
		"errors":     summary.Errors,
	}).Info("reconciliation run completed")

	return &model.RunResult{RunID: runID, Summary: summary, Results: results}
}

func errorResult(tenantID string, err error) model.TenantCheckResult {
	return model.TenantCheckResult{
		TenantID: tenantID,
		Status:   model.StatusError,
		Error:    err.Error(),
	}
}

func summarize(results []model.TenantCheckResult, window model.DateWindow, start time.Time) model.RunSummary {
	summary := model.RunSummary{
		Total:      len(results),
		DateRange:  window.String(),
		Timestamp:  start,
		DurationMS: time.Since(start).Milliseconds(),
	}
	for _, result := range results {
		switch result.Status {
		case model.StatusMatch:
			summary.Matched++
		case model.StatusMismatch:
			summary.Mismatched++
		case model.StatusError:
			summary.Errors++
		}
	}
	return summary
}
