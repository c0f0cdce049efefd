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

	"golang.org/x/sync/errgroup"

	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/model"
)

// domainSums collects the raw aggregation results of the three independent
// per-tenant domains. The aggregations have no data dependency on each
// other, so they are issued concurrently; all must complete before the
// engine merges and compares.
type domainSums struct {
	taxPayments      []model.TaxGroupSum
	taxDistributions []model.TaxGroupSum
	miscGrand        float64
	miscUnits        []model.UnitSum
	mortgage         model.MortgageSum
}

func (r *Reconciler) aggregateDomains(ctx context.Context, tenantID string, window model.DateWindow) (domainSums, error) {
	var sums domainSums
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if sums.taxPayments, err = r.datasource.TaxPaymentSums(gctx, tenantID, window); err != nil {
			return err
		}
		sums.taxDistributions, err = r.datasource.TaxDistributionSums(gctx, tenantID, window)
		return err
	})
	g.Go(func() error {
		var err error
		if sums.miscGrand, err = r.datasource.MiscGrandTotal(gctx, tenantID, window); err != nil {
			return err
		}
		sums.miscUnits, err = r.datasource.MiscUnitSums(gctx, tenantID, window)
		return err
	})
	g.Go(func() error {
		var err error
		sums.mortgage, err = r.datasource.MortgageSums(gctx, tenantID, window)
		return err
	})

	if err := g.Wait(); err != nil {
		return domainSums{}, err
	}
	return sums, nil
}

// CheckTenant runs one tenant's full reconciliation check: the three domain
// aggregations, merge and fiscal classification, catalog comparison, and
// the diagnostic ledger cross-check. Any query or processing error is
// returned to the orchestrator; retrying is the orchestrator's job.
func (r *Reconciler) CheckTenant(ctx context.Context, tenant config.Tenant, window model.DateWindow) (model.TenantCheckResult, error) {
	sums, err := r.aggregateDomains(ctx, tenant.ID, window)
	if err != nil {
		return model.TenantCheckResult{}, err
	}

	years := TaxYearsAt(window.To)
	merged := MergeTaxSums(sums.taxPayments, sums.taxDistributions)

	glTotals, apportionment := ClassifyTaxTotals(merged, years, tenant.NoPriorTax)

	glMisc, appMisc := MiscTotals(sums.miscGrand, sums.miscUnits)
	glTotals.Merge(glMisc)
	apportionment.Merge(appMisc)

	glMtg, appMtg := MortgageTotals(sums.mortgage)
	glTotals.Merge(glMtg)
	apportionment.Merge(appMtg)

	comparison := Compare(apportionment, glTotals, model.Catalog())

	funds, err := r.datasource.LookupFunds(ctx, tenant.ID, model.GLFundKeys(), window.To.Year())
	if err != nil {
		return model.TenantCheckResult{}, err
	}
	posted, err := r.datasource.FundPostedNets(ctx, tenant.ID, funds, window)
	if err != nil {
		return model.TenantCheckResult{}, err
	}

	return model.TenantCheckResult{
		TenantID:   tenant.ID,
		Status:     OverallStatus(comparison),
		Comparison: comparison,
		CrossCheck: CrossCheck(tenant.ID, glTotals, posted),
	}, nil
}
