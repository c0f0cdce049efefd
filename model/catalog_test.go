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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogHasSixCategoriesInStableOrder(t *testing.T) {
	labels := make([]string, 0)
	for _, category := range Catalog() {
		labels = append(labels, category.Label)
	}
	assert.Equal(t, []string{"currentTax", "priorTax", "backTax", "miscReceipts", "mtgTaxCert", "mtgTax"}, labels)
}

func TestCatalogTagSetsAreDisjoint(t *testing.T) {
	seen := map[string]string{}
	for _, category := range Catalog() {
		for _, tag := range category.ApportionmentTags {
			owner, dup := seen[tag]
			assert.False(t, dup, "tag %q appears in both %s and %s", tag, owner, category.Label)
			seen[tag] = category.Label
		}
	}
}

func TestCatalogEveryCategoryHasOneFundKey(t *testing.T) {
	for _, category := range Catalog() {
		assert.NotEmpty(t, category.GLFundKey, category.Label)
	}
	assert.Len(t, GLFundKeys(), len(Catalog()))
}

func TestCatalogTolerancePercentIsDormant(t *testing.T) {
	for _, category := range Catalog() {
		assert.Zero(t, category.TolerancePercent, category.Label)
	}
}
