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
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/treasuryops/taxrecon/model"
)

// MockDataSource is a mock implementation of the IDataSource interface
type MockDataSource struct {
	mock.Mock
}

func (m *MockDataSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDataSource) TaxPaymentSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaxGroupSum), args.Error(1)
}

func (m *MockDataSource) TaxDistributionSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TaxGroupSum), args.Error(1)
}

func (m *MockDataSource) MiscGrandTotal(ctx context.Context, tenantID string, window model.DateWindow) (float64, error) {
	args := m.Called(ctx, tenantID, window)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDataSource) MiscUnitSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.UnitSum, error) {
	args := m.Called(ctx, tenantID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UnitSum), args.Error(1)
}

func (m *MockDataSource) MortgageSums(ctx context.Context, tenantID string, window model.DateWindow) (model.MortgageSum, error) {
	args := m.Called(ctx, tenantID, window)
	return args.Get(0).(model.MortgageSum), args.Error(1)
}

func (m *MockDataSource) LookupFunds(ctx context.Context, tenantID string, fundKeys []string, year int) (map[string]string, error) {
	args := m.Called(ctx, tenantID, fundKeys, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockDataSource) FundPostedNets(ctx context.Context, tenantID string, funds map[string]string, window model.DateWindow) (map[string]float64, error) {
	args := m.Called(ctx, tenantID, funds, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func (m *MockDataSource) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
