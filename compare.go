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
	"math"

	"github.com/treasuryops/taxrecon/model"
)

// DefaultTolerance is the absolute difference, in currency units, below
// which two totals are considered matching.
const DefaultTolerance = 0.01

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compare produces the per-category match verdicts. For each catalog entry
// it sums the category's apportionment tags, looks up the GL total by fund
// key, and checks the absolute difference against the tolerance. Missing
// tags and fund keys contribute zero; they are never an error. Match is
// decided on the unrounded accumulators, at diff <= tolerance exactly.
func Compare(apportionment, glTotals model.Totals, catalog []model.FundCategory) map[string]model.ComparisonResult {
	results := make(map[string]model.ComparisonResult, len(catalog))

	for _, category := range catalog {
		var apportioned float64
		for _, tag := range category.ApportionmentTags {
			apportioned += apportionment[tag]
		}
		gl := glTotals[category.GLFundKey]

		diff := math.Abs(apportioned - gl)
		tolerance := DefaultTolerance
		if category.TolerancePercent > 0 {
			tolerance = category.TolerancePercent / 100 * math.Max(apportioned, gl)
		}

		results[category.Label] = model.ComparisonResult{
			Apportionment: round2(apportioned),
			GL:            round2(gl),
			Diff:          round2(diff),
			Match:         diff <= tolerance,
		}
	}

	return results
}

// OverallStatus folds per-category verdicts into the tenant status:
// MATCH iff every category matches.
func OverallStatus(results map[string]model.ComparisonResult) string {
	for _, result := range results {
		if !result.Match {
			return model.StatusMismatch
		}
	}
	return model.StatusMatch
}
