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

	"github.com/sirupsen/logrus"

	"github.com/treasuryops/taxrecon/model"
)

// CrossCheck validates the derived GL totals against the nets actually
// posted to the ledger (deposits - payments - transfersOut per fund).
// Persistent drift means the derived totals no longer reflect what was
// posted, a distinct failure mode from an apportionment/GL mismatch. The
// result is diagnostic only: it is logged and carried on the tenant result
// but never flips a category match verdict.
func CrossCheck(tenantID string, derived model.Totals, posted map[string]float64) map[string]model.CrossCheckResult {
	keys := make(map[string]bool, len(derived)+len(posted))
	for key := range derived {
		keys[key] = true
	}
	for key := range posted {
		keys[key] = true
	}

	results := make(map[string]model.CrossCheckResult, len(keys))
	for key := range keys {
		derivedTotal := derived[key]
		postedNet := posted[key]
		drift := derivedTotal - postedNet
		consistent := math.Abs(drift) <= DefaultTolerance
		if !consistent {
			logrus.WithFields(logrus.Fields{
				"tenant":  tenantID,
				"fund":    key,
				"derived": round2(derivedTotal),
				"posted":  round2(postedNet),
			}).Warn("GL cross-check drift: derived totals diverge from posted ledger nets")
		}
		results[key] = model.CrossCheckResult{
			Derived:    round2(derivedTotal),
			Posted:     round2(postedNet),
			Drift:      round2(drift),
			Consistent: consistent,
		}
	}

	return results
}
