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
	"sort"

	"github.com/treasuryops/taxrecon/model"
)

// taxBucket names the three apportionment tags and the GL fund key one
// fiscal bucket maps to.
type taxBucket struct {
	base    string
	penalty string
	fee     string
	fundKey string
}

var (
	currentBucket = taxBucket{base: "CTax", penalty: "CTaxPen", fee: "CTaxFee", fundKey: "Current Tax"}
	priorBucket   = taxBucket{base: "PTax", penalty: "PTaxPen", fee: "PTaxFee", fundKey: "Prior Tax"}
	backBucket    = taxBucket{base: "BTax", penalty: "BTaxPen", fee: "BTaxFee", fundKey: "Back Tax"}
)

type taxGroupKey struct {
	taxYear    int
	districtID int
}

// MergeTaxSums folds any number of raw tax aggregation result sets into one
// merged set keyed by (TaxYear, DistrictID), summing each field across every
// record sharing a key. The fold is commutative and associative, so the
// order of the input sets never affects the totals. The result is sorted by
// key for deterministic downstream iteration.
func MergeTaxSums(sets ...[]model.TaxGroupSum) []model.MergedTaxRecord {
	merged := make(map[taxGroupKey]model.MergedTaxRecord)
	for _, set := range sets {
		for _, sum := range set {
			key := taxGroupKey{taxYear: sum.TaxYear, districtID: sum.DistrictID}
			record := merged[key]
			record.TaxYear = sum.TaxYear
			record.DistrictID = sum.DistrictID
			record.TaxAmt += sum.TaxAmt
			record.PenaltyAmt += sum.PenaltyAmt
			record.FeeAmt += sum.FeeAmt
			record.GLTotal += sum.GLTotal
			merged[key] = record
		}
	}

	records := make([]model.MergedTaxRecord, 0, len(merged))
	for _, record := range merged {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].TaxYear != records[j].TaxYear {
			return records[i].TaxYear < records[j].TaxYear
		}
		return records[i].DistrictID < records[j].DistrictID
	})
	return records
}

// bucketFor applies the fiscal classification rule to one merged record.
// A record in the current tax year is current; with the tenant noPriorTax
// flag set every other year goes straight to back, skipping prior entirely.
func bucketFor(taxYear int, years model.TaxYearStatus, noPriorTax bool) taxBucket {
	switch {
	case taxYear == years.CurrentTax:
		return currentBucket
	case noPriorTax:
		return backBucket
	case taxYear == years.PriorTax:
		return priorBucket
	default:
		return backBucket
	}
}

// ClassifyTaxTotals re-buckets every merged tax record into
// current/prior/back and accumulates the two parallel totals maps. Both
// maps are built from the same merged record under the same bucket, so a
// record can never be classified into different fiscal years on the two
// sides. Accumulation is a running sum: multiple districts land in the same
// bucket.
//
// Returns:
// - model.Totals: GL-fund-keyed totals (posted distribution totals).
// - model.Totals: apportionment-tag-keyed totals (tax/penalty/fee components).
func ClassifyTaxTotals(records []model.MergedTaxRecord, years model.TaxYearStatus, noPriorTax bool) (model.Totals, model.Totals) {
	glTotals := model.Totals{}
	apportionment := model.Totals{}

	for _, record := range records {
		bucket := bucketFor(record.TaxYear, years, noPriorTax)
		apportionment.Add(bucket.base, record.TaxAmt)
		apportionment.Add(bucket.penalty, record.PenaltyAmt)
		apportionment.Add(bucket.fee, record.FeeAmt)
		glTotals.Add(bucket.fundKey, record.GLTotal)
	}

	return glTotals, apportionment
}

// MiscTotals builds both sides of the misc receipts category. The grand
// total (special apportionments excluded upstream) is the GL view; the
// classified unit breakdown is the apportionment view. Any residual between
// the two beyond the default tolerance is attributed to the "undefined"
// bucket rather than silently dropped.
func MiscTotals(grandTotal float64, units []model.UnitSum) (model.Totals, model.Totals) {
	glTotals := model.Totals{"MISC": grandTotal}

	apportionment := model.Totals{}
	var classified float64
	for _, unit := range units {
		apportionment.Add(unit.Category, unit.Amount)
		classified += unit.Amount
	}

	residual := grandTotal - classified
	if math.Abs(residual) > DefaultTolerance {
		apportionment.Add("undefined", residual)
	}

	return glTotals, apportionment
}

// MortgageTotals splits the mortgage grouped sum into its two categories:
// the tax component and the certificate fee component.
func MortgageTotals(sum model.MortgageSum) (model.Totals, model.Totals) {
	glTotals := model.Totals{
		"MtgTax":    sum.TaxAmt,
		"MtgTaxFee": sum.FeeAmt,
	}
	apportionment := model.Totals{
		"MtgTax":     sum.TaxAmt,
		"MtgTaxCert": sum.FeeAmt,
	}
	return glTotals, apportionment
}
