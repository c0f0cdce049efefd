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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treasuryops/taxrecon/model"
)

func TestCompareToleranceBoundary(t *testing.T) {
	// diff exactly at the tolerance matches
	results := Compare(model.Totals{"CTax": 0.01}, model.Totals{}, model.Catalog())
	assert.True(t, results["currentTax"].Match, "diff == tolerance must match")

	// the tiniest step past it does not
	results = Compare(model.Totals{"CTax": 0.011}, model.Totals{}, model.Catalog())
	assert.False(t, results["currentTax"].Match, "diff just past tolerance must not match")
}

func TestCompareMissingKeysContributeZero(t *testing.T) {
	results := Compare(model.Totals{}, model.Totals{}, model.Catalog())

	assert.Len(t, results, len(model.Catalog()))
	for label, result := range results {
		assert.True(t, result.Match, label)
		assert.Zero(t, result.Apportionment)
		assert.Zero(t, result.GL)
		assert.False(t, math.IsNaN(result.Diff), "missing lookups must never produce NaN")
	}
}

func TestCompareSumsAllCategoryTags(t *testing.T) {
	apportionment := model.Totals{"CTax": 100, "CTaxPen": 5, "CTaxFee": 2}
	glTotals := model.Totals{"Current Tax": 107}

	results := Compare(apportionment, glTotals, model.Catalog())

	current := results["currentTax"]
	assert.Equal(t, 107.0, current.Apportionment)
	assert.Equal(t, 107.0, current.GL)
	assert.Zero(t, current.Diff)
	assert.True(t, current.Match)
}

func TestComparePercentToleranceCategory(t *testing.T) {
	catalog := []model.FundCategory{
		{Label: "pct", ApportionmentTags: []string{"X"}, GLFundKey: "XF", TolerancePercent: 5},
	}

	results := Compare(model.Totals{"X": 100}, model.Totals{"XF": 96}, catalog)
	assert.True(t, results["pct"].Match, "4 diff within 5%% of 100")

	results = Compare(model.Totals{"X": 100}, model.Totals{"XF": 90}, catalog)
	assert.False(t, results["pct"].Match, "10 diff beyond 5%% of 100")
}

func TestOverallStatus(t *testing.T) {
	all := map[string]model.ComparisonResult{
		"a": {Match: true},
		"b": {Match: true},
	}
	assert.Equal(t, model.StatusMatch, OverallStatus(all))

	all["b"] = model.ComparisonResult{Match: false}
	assert.Equal(t, model.StatusMismatch, OverallStatus(all))
}
