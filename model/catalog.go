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

// FundCategory declares the correspondence between one fund category's
// apportionment tags and its GL fund key. The catalog is data, not code:
// the comparator iterates it in declared order and never branches on
// individual categories.
type FundCategory struct {
	Label             string
	Description       string
	ApportionmentTags []string
	GLFundKey         string
	// TolerancePercent switches the category from the default absolute
	// tolerance to percent/100 * max(apportionment, gl). Zero means the
	// absolute default applies. No catalog entry sets it today.
	TolerancePercent float64
}

var fundCatalog = []FundCategory{
	{
		Label:             "currentTax",
		Description:       "Current year ad valorem tax, penalty and fees",
		ApportionmentTags: []string{"CTax", "CTaxFee", "CTaxPen"},
		GLFundKey:         "Current Tax",
	},
	{
		Label:             "priorTax",
		Description:       "Prior year ad valorem tax, penalty and fees",
		ApportionmentTags: []string{"PTax", "PTaxFee", "PTaxPen"},
		GLFundKey:         "Prior Tax",
	},
	{
		Label:             "backTax",
		Description:       "Back year ad valorem tax, penalty and fees",
		ApportionmentTags: []string{"BTax", "BTaxFee", "BTaxPen"},
		GLFundKey:         "Back Tax",
	},
	{
		Label:             "miscReceipts",
		Description:       "Miscellaneous receipts by revenue unit",
		ApportionmentTags: []string{"ABT", "JT4MILL", "MV", "MVTS", "FLOOD", "INTEREST", "", "undefined"},
		GLFundKey:         "MISC",
	},
	{
		Label:             "mtgTaxCert",
		Description:       "Mortgage tax certificate fees",
		ApportionmentTags: []string{"MtgTaxCert"},
		GLFundKey:         "MtgTaxFee",
	},
	{
		Label:             "mtgTax",
		Description:       "Mortgage tax",
		ApportionmentTags: []string{"MtgTax"},
		GLFundKey:         "MtgTax",
	},
}

// Catalog returns the fund category catalog in its fixed, stable order.
// Callers must treat the returned slice as read-only.
func Catalog() []FundCategory {
	return fundCatalog
}

// GLFundKeys returns every GL fund key declared in the catalog, in catalog
// order. Used to resolve fund identifiers for the ledger cross-check.
func GLFundKeys() []string {
	keys := make([]string, 0, len(fundCatalog))
	for _, category := range fundCatalog {
		keys = append(keys, category.GLFundKey)
	}
	return keys
}
