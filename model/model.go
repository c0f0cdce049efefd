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
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Tenant check statuses.
const (
	StatusMatch    = "MATCH"
	StatusMismatch = "MISMATCH"
	StatusError    = "ERROR"
)

// TaxYearStatus holds the four tax years relevant to a reference date,
// derived from the July-1 fiscal boundary.
type TaxYearStatus struct {
	NextTax    int `json:"next_tax"`
	CurrentTax int `json:"current_tax"`
	PriorTax   int `json:"prior_tax"`
	BackTax    int `json:"back_tax"`
}

// TaxGroupSum is the normalized raw aggregate record for the tax domain.
// The nested payment aggregation fills the component fields; the flat
// distribution aggregation fills GLTotal. Both shapes share the
// (TaxYear, DistrictID) group key so they merge into one key space.
type TaxGroupSum struct {
	TaxYear    int
	DistrictID int
	TaxAmt     float64
	PenaltyAmt float64
	FeeAmt     float64
	GLTotal    float64
}

// MergedTaxRecord is a field-wise sum of every TaxGroupSum sharing the same
// (TaxYear, DistrictID) key across all raw sources.
type MergedTaxRecord struct {
	TaxYear    int
	DistrictID int
	TaxAmt     float64
	PenaltyAmt float64
	FeeAmt     float64
	GLTotal    float64
}

// UnitSum is one row of the misc per-unit breakdown, joined against the
// unit-to-category lookup. Category may be empty when the unit is unmapped.
type UnitSum struct {
	Unit     string
	Category string
	Amount   float64
}

// MortgageSum is the mortgage domain grouped total split into its tax and
// fee components.
type MortgageSum struct {
	TaxAmt float64
	FeeAmt float64
}

// Totals maps category-specific keys (apportionment tags or GL fund keys)
// to monetary sums. Accumulation keeps full float precision; rounding
// happens only at reporting time.
type Totals map[string]float64

// Add accumulates amount into key with a running sum.
func (t Totals) Add(key string, amount float64) {
	t[key] += amount
}

// Merge folds every entry of other into t.
func (t Totals) Merge(other Totals) {
	for key, amount := range other {
		t[key] += amount
	}
}

// ComparisonResult is the per-category verdict. Apportionment, GL and Diff
// are rounded to two decimals for display; Match is computed from the
// unrounded accumulators.
type ComparisonResult struct {
	Apportionment float64 `json:"apportionment"`
	GL            float64 `json:"gl"`
	Diff          float64 `json:"diff"`
	Match         bool    `json:"match"`
}

// CrossCheckResult reports the diagnostic comparison between a derived GL
// total and the net actually posted to the ledger for the same fund. It
// never influences the category match verdict.
type CrossCheckResult struct {
	Derived    float64 `json:"derived"`
	Posted     float64 `json:"posted"`
	Drift      float64 `json:"drift"`
	Consistent bool    `json:"consistent"`
}

// TenantCheckResult is the outcome of one tenant's reconciliation check.
type TenantCheckResult struct {
	TenantID   string                      `json:"tenant_id"`
	Status     string                      `json:"status"`
	Comparison map[string]ComparisonResult `json:"comparison,omitempty"`
	CrossCheck map[string]CrossCheckResult `json:"cross_check,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

// DateWindow is an inclusive date range; To is end-of-day on the last day.
type DateWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (w DateWindow) String() string {
	return fmt.Sprintf("%s .. %s", w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
}

// RunSummary aggregates status counts across all tenant results. Immutable
// once constructed at the end of a run.
type RunSummary struct {
	Total      int       `json:"total"`
	Matched    int       `json:"matched"`
	Mismatched int       `json:"mismatched"`
	Errors     int       `json:"errors"`
	DateRange  string    `json:"dateRange"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMS int64     `json:"durationMs"`
}

// RunResult is the result object contract consumed by the reporter, the
// persisted file, the HTML email and the webhook payload.
type RunResult struct {
	RunID   string              `json:"run_id"`
	Summary RunSummary          `json:"summary"`
	Results []TenantCheckResult `json:"results"`
}

// GenerateUUIDWithSuffix generates a new UUID prefixed with a module tag,
// e.g. "run_9f6c...".
func GenerateUUIDWithSuffix(module string) string {
	return fmt.Sprintf("%s_%s", module, uuid.New().String())
}
