package taxrecon

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/model"
)

// RenderText renders the run result as the console/file report. Categories
// appear in catalog order; mismatching categories and cross-check drift get
// their own detail lines.
func RenderText(result *model.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Apportionment / GL reconciliation %s\n", result.RunID)
	fmt.Fprintf(&b, "Window: %s\n\n", result.Summary.DateRange)

	for _, tenant := range result.Results {
		fmt.Fprintf(&b, "[%s] %s\n", tenant.Status, tenant.TenantID)
		if tenant.Status == model.StatusError {
			fmt.Fprintf(&b, "    error: %s\n", tenant.Error)
			continue
		}
		for _, category := range model.Catalog() {
			comparison, ok := tenant.Comparison[category.Label]
			if !ok || comparison.Match {
				continue
			}
			fmt.Fprintf(&b, "    %-14s apportionment %12.2f  gl %12.2f  diff %10.2f\n",
				category.Label, comparison.Apportionment, comparison.GL, comparison.Diff)
		}
		for _, fund := range sortedKeys(tenant.CrossCheck) {
			check := tenant.CrossCheck[fund]
			if check.Consistent {
				continue
			}
			fmt.Fprintf(&b, "    cross-check %-14s derived %12.2f  posted %12.2f  drift %10.2f\n",
				fund, check.Derived, check.Posted, check.Drift)
		}
	}

	fmt.Fprintf(&b, "\n%d tenants: %d matched, %d mismatched, %d errors (%dms)\n",
		result.Summary.Total, result.Summary.Matched, result.Summary.Mismatched,
		result.Summary.Errors, result.Summary.DurationMS)

	return b.String()
}

func sortedKeys(m map[string]model.CrossCheckResult) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// PrintReport writes the rendered report to stdout.
func PrintReport(result *model.RunResult) {
	fmt.Print(RenderText(result))
}

// WriteReportFile persists the rendered report under the configured report
// directory. The file is always written regardless of notification
// outcome; callers treat a write failure as isolated.
func WriteReportFile(result *model.RunResult) (string, error) {
	conf, err := config.Fetch()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(conf.ReportDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(conf.ReportDir, fmt.Sprintf("%s.txt", result.RunID))
	if err := os.WriteFile(path, []byte(RenderText(result)), 0o644); err != nil {
		return "", err
	}

	logrus.WithField("path", path).Info("reconciliation report written")
	return path, nil
}
