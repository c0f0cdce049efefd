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
package database

import (
	"context"

	"github.com/treasuryops/taxrecon/model"
)

// IDataSource is the read-only aggregation interface the reconciliation
// engine consumes. Every method selects the tenant's physical database by
// naming convention from the tenant ID and runs grouped-sum queries over
// the given inclusive date window. Implementations must support concurrent
// independent queries on one shared connection handle.
type IDataSource interface {
	// Ping verifies connectivity. Called once at process start; a failure
	// is fatal before any tenant is processed.
	Ping(ctx context.Context) error

	// TaxPaymentSums aggregates the nested payment collection (embedded
	// apportionment sub-records) into component sums grouped by
	// (taxYear, districtId). Tax-exempt and under-protest payments are
	// excluded.
	TaxPaymentSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error)

	// TaxDistributionSums aggregates the flat distribution collection into
	// posted totals grouped by (taxYear, districtId), with the same
	// exclusion predicate semantics as TaxPaymentSums.
	TaxDistributionSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error)

	// MiscGrandTotal sums misc receipts, excluding special apportionments.
	MiscGrandTotal(ctx context.Context, tenantID string, window model.DateWindow) (float64, error)

	// MiscUnitSums returns the per-unit misc breakdown joined against the
	// unit-to-category lookup collection.
	MiscUnitSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.UnitSum, error)

	// MortgageSums returns the mortgage grouped total split into tax and
	// fee components, excluding correction entries.
	MortgageSums(ctx context.Context, tenantID string, window model.DateWindow) (model.MortgageSum, error)

	// LookupFunds resolves GL fund keys to internal fund identifiers,
	// filtered to apportionment-usage funds of the given calendar year.
	LookupFunds(ctx context.Context, tenantID string, fundKeys []string, year int) (map[string]string, error)

	// FundPostedNets sums ledger postings per fund over the window and
	// returns net = deposits - payments - transfersOut keyed by fund key.
	// funds maps fund key to internal fund identifier as returned by
	// LookupFunds.
	FundPostedNets(ctx context.Context, tenantID string, funds map[string]string, window model.DateWindow) (map[string]float64, error)

	// Close releases the shared connection handle at process end.
	Close(ctx context.Context) error
}
