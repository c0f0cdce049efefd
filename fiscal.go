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
	"time"

	"github.com/treasuryops/taxrecon/model"
)

// TaxYearsAt computes the four tax years relevant to a reference date.
// The fiscal year starts July 1: through June the current tax year is the
// one that started the previous calendar year.
//
// Parameters:
// - ref time.Time: The reference date, normally the check window's end date.
//
// Returns:
// - model.TaxYearStatus: The next/current/prior/back tax year integers.
func TaxYearsAt(ref time.Time) model.TaxYearStatus {
	current := ref.Year()
	if ref.Month() <= time.June {
		current--
	}
	return model.TaxYearStatus{
		NextTax:    current + 1,
		CurrentTax: current,
		PriorTax:   current - 1,
		BackTax:    current - 2,
	}
}
