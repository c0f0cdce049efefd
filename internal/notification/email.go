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

package notification

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/model"
)

var emailTemplate = template.Must(template.New("report").Parse(`<html>
<body>
<h2>Apportionment / GL reconciliation</h2>
<p>Window: {{.Summary.DateRange}}</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Tenant</th><th>Status</th><th>Detail</th></tr>
{{range .Rows}}<tr><td>{{.TenantID}}</td><td>{{.Status}}</td><td>{{.Detail}}</td></tr>
{{end}}</table>
<p>{{.Summary.Total}} tenants: {{.Summary.Matched}} matched, {{.Summary.Mismatched}} mismatched, {{.Summary.Errors}} errors</p>
</body>
</html>`))

type emailRow struct {
	TenantID string
	Status   string
	Detail   string
}

type emailData struct {
	Summary model.RunSummary
	Rows    []emailRow
}

// RenderEmail renders the HTML email body for a run result: one table row
// per tenant with mismatch or error detail.
func RenderEmail(result *model.RunResult) (string, error) {
	data := emailData{Summary: result.Summary}
	for _, tenant := range result.Results {
		row := emailRow{TenantID: tenant.TenantID, Status: tenant.Status}
		switch tenant.Status {
		case model.StatusError:
			row.Detail = tenant.Error
		case model.StatusMismatch:
			var mismatched []string
			for _, category := range model.Catalog() {
				if comparison, ok := tenant.Comparison[category.Label]; ok && !comparison.Match {
					mismatched = append(mismatched, fmt.Sprintf("%s (diff %.2f)", category.Label, comparison.Diff))
				}
			}
			row.Detail = strings.Join(mismatched, ", ")
		}
		data.Rows = append(data.Rows, row)
	}

	var body bytes.Buffer
	if err := emailTemplate.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// SendEmailReport delivers the HTML report by SMTP to the configured
// recipients. A delivery failure is isolated; the persisted report file is
// unaffected.
func SendEmailReport(result *model.RunResult) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}

	email := conf.Notification.Email
	if email.Host == "" || len(email.To) == 0 {
		return errors.New("email notification is not configured")
	}

	body, err := RenderEmail(result)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Reconciliation %s: %d matched, %d mismatched, %d errors",
		result.Summary.DateRange, result.Summary.Matched, result.Summary.Mismatched, result.Summary.Errors)

	var message bytes.Buffer
	fmt.Fprintf(&message, "From: %s\r\n", email.From)
	fmt.Fprintf(&message, "To: %s\r\n", strings.Join(email.To, ", "))
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", email.Host, email.Port)
	var auth smtp.Auth
	if email.Username != "" {
		auth = smtp.PlainAuth("", email.Username, email.Password, email.Host)
	}

	if err := smtp.SendMail(addr, auth, email.From, email.To, message.Bytes()); err != nil {
		logrus.Errorf("email delivery failed: %v", err)
		return err
	}

	logrus.Info("email report sent")
	return nil
}
