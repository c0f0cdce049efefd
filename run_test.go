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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/database/mocks"
	"github.com/treasuryops/taxrecon/model"
)

func julyWindow() model.DateWindow {
	return MonthWindow(time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC), 0)
}

// stubQuietDomains sets up zero-valued misc, mortgage and ledger results so
// a test can focus on the tax domain.
func stubQuietDomains(mockDS *mocks.MockDataSource, tenantID string) {
	mockDS.On("MiscGrandTotal", mock.Anything, tenantID, mock.Anything).Return(0.0, nil)
	mockDS.On("MiscUnitSums", mock.Anything, tenantID, mock.Anything).Return([]model.UnitSum{}, nil)
	mockDS.On("MortgageSums", mock.Anything, tenantID, mock.Anything).Return(model.MortgageSum{}, nil)
}

func TestCheckTenantMatch(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	recon := NewReconciler(mockDS)
	window := julyWindow()
	currentTax := TaxYearsAt(window.To).CurrentTax

	mockDS.On("TaxPaymentSums", mock.Anything, "acme", mock.Anything).Return([]model.TaxGroupSum{
		{TaxYear: currentTax, DistrictID: 1, TaxAmt: 100, PenaltyAmt: 5, FeeAmt: 2},
	}, nil)
	mockDS.On("TaxDistributionSums", mock.Anything, "acme", mock.Anything).Return([]model.TaxGroupSum{
		{TaxYear: currentTax, DistrictID: 1, GLTotal: 107},
	}, nil)
	stubQuietDomains(mockDS, "acme")
	mockDS.On("LookupFunds", mock.Anything, "acme", model.GLFundKeys(), window.To.Year()).
		Return(map[string]string{"Current Tax": "fund-1"}, nil)
	mockDS.On("FundPostedNets", mock.Anything, "acme", mock.Anything, mock.Anything).
		Return(map[string]float64{"Current Tax": 107}, nil)

	result, err := recon.CheckTenant(context.Background(), config.Tenant{ID: "acme"}, window)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusMatch, result.Status)
	current := result.Comparison["currentTax"]
	assert.Equal(t, 107.0, current.Apportionment)
	assert.Equal(t, 107.0, current.GL)
	assert.Zero(t, current.Diff)
	assert.True(t, current.Match)
	assert.True(t, result.CrossCheck["Current Tax"].Consistent)
	mockDS.AssertExpectations(t)
}

func TestCheckTenantMismatch(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	recon := NewReconciler(mockDS)
	window := julyWindow()
	currentTax := TaxYearsAt(window.To).CurrentTax

	mockDS.On("TaxPaymentSums", mock.Anything, "acme", mock.Anything).Return([]model.TaxGroupSum{
		{TaxYear: currentTax, DistrictID: 1, TaxAmt: 100, PenaltyAmt: 5, FeeAmt: 2},
	}, nil)
	// the posted distribution disagrees with the apportionment components
	mockDS.On("TaxDistributionSums", mock.Anything, "acme", mock.Anything).Return([]model.TaxGroupSum{
		{TaxYear: currentTax, DistrictID: 1, GLTotal: 100},
	}, nil)
	stubQuietDomains(mockDS, "acme")
	mockDS.On("LookupFunds", mock.Anything, "acme", model.GLFundKeys(), window.To.Year()).
		Return(map[string]string{"Current Tax": "fund-1"}, nil)
	mockDS.On("FundPostedNets", mock.Anything, "acme", mock.Anything, mock.Anything).
		Return(map[string]float64{"Current Tax": 100}, nil)

	result, err := recon.CheckTenant(context.Background(), config.Tenant{ID: "acme"}, window)

	assert.NoError(t, err)
	assert.Equal(t, model.StatusMismatch, result.Status)
	current := result.Comparison["currentTax"]
	assert.Equal(t, 7.0, current.Diff)
	assert.False(t, current.Match)

	// the mismatch detail names the category
	text := RenderText(&model.RunResult{Results: []model.TenantCheckResult{result}})
	assert.Contains(t, text, "currentTax")
	mockDS.AssertExpectations(t)
}

func TestRunRetriesFailedTenantOnce(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	recon := NewReconciler(mockDS)
	window := julyWindow()
	currentTax := TaxYearsAt(window.To).CurrentTax

	goodPayments := []model.TaxGroupSum{{TaxYear: currentTax, DistrictID: 1, TaxAmt: 107}}
	goodDistributions := []model.TaxGroupSum{{TaxYear: currentTax, DistrictID: 1, GLTotal: 107}}

	for _, tenantID := range []string{"t1", "t3"} {
		mockDS.On("TaxPaymentSums", mock.Anything, tenantID, mock.Anything).Return(goodPayments, nil)
		mockDS.On("TaxDistributionSums", mock.Anything, tenantID, mock.Anything).Return(goodDistributions, nil)
		stubQuietDomains(mockDS, tenantID)
		mockDS.On("LookupFunds", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(map[string]string{}, nil)
		mockDS.On("FundPostedNets", mock.Anything, tenantID, mock.Anything, mock.Anything).Return(map[string]float64{"Current Tax": 107}, nil)
	}

	// t2 fails during aggregation on the first pass and succeeds on retry
	mockDS.On("TaxPaymentSums", mock.Anything, "t2", mock.Anything).Return(nil, errors.New("connection reset")).Once()
	mockDS.On("TaxPaymentSums", mock.Anything, "t2", mock.Anything).Return(goodPayments, nil)
	mockDS.On("TaxDistributionSums", mock.Anything, "t2", mock.Anything).Return(goodDistributions, nil)
	stubQuietDomains(mockDS, "t2")
	mockDS.On("LookupFunds", mock.Anything, "t2", mock.Anything, mock.Anything).Return(map[string]string{}, nil)
	mockDS.On("FundPostedNets", mock.Anything, "t2", mock.Anything, mock.Anything).Return(map[string]float64{"Current Tax": 107}, nil)

	result := recon.Run(context.Background(), RunOptions{
		Tenants: []config.Tenant{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}},
		Window:  window,
	})

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 3, result.Summary.Matched)
	assert.Zero(t, result.Summary.Errors)

	// the retry replaced t2's result wholesale, in place
	assert.Equal(t, "t2", result.Results[1].TenantID)
	assert.Equal(t, model.StatusMatch, result.Results[1].Status)
	assert.Empty(t, result.Results[1].Error)
	assert.NotNil(t, result.Results[1].Comparison)
}

func TestRunIsolatesPersistentFailures(t *testing.T) {
	mockDS := new(mocks.MockDataSource)
	recon := NewReconciler(mockDS)
	window := julyWindow()

	mockDS.On("TaxPaymentSums", mock.Anything, "bad", mock.Anything).Return(nil, errors.New("no such database"))
	stubQuietDomains(mockDS, "bad")

	result := recon.Run(context.Background(), RunOptions{
		Tenants: []config.Tenant{{ID: "bad"}},
		Window:  window,
	})

	assert.Equal(t, 1, result.Summary.Errors)
	assert.Equal(t, model.StatusError, result.Results[0].Status)
	assert.Contains(t, result.Results[0].Error, "no such database")
}

func TestMonthWindow(t *testing.T) {
	ref := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

	window := MonthWindow(ref, 0)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), window.From)
	assert.Equal(t, time.March, window.To.Month())
	assert.Equal(t, 31, window.To.Day())

	// leap February via a negative offset
	window = MonthWindow(ref, -1)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), window.From)
	assert.Equal(t, 29, window.To.Day())
}
