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

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	taxrecon "github.com/treasuryops/taxrecon"
	"github.com/treasuryops/taxrecon/internal/notification"
)

// checkCommands wires the `check` subcommand: run the reconciliation over
// the selected tenants and window, print and persist the report, and
// optionally deliver it by email and webhook. Notification failures are
// isolated; the run result and the persisted file stand regardless.
func checkCommands(b *reconInstance) *cobra.Command {
	var (
		tenantSelector string
		monthOffset    int
		echoJSON       bool
		sendEmail      bool
		sendWebhook    bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Reconcile apportionment totals against GL fund balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenants, err := b.cnf.ResolveTenants(tenantSelector)
			if err != nil {
				return err
			}

			window := taxrecon.MonthWindow(time.Now(), monthOffset)
			result := b.recon.Run(cmd.Context(), taxrecon.RunOptions{
				Tenants: tenants,
				Window:  window,
			})

			taxrecon.PrintReport(result)

			if _, err := taxrecon.WriteReportFile(result); err != nil {
				logrus.Errorf("failed to persist report file: %v", err)
			}

			if echoJSON {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(encoded))
			}

			if sendEmail {
				if err := notification.SendEmailReport(result); err != nil {
					logrus.Errorf("email notification failed: %v", err)
				}
			}

			if sendWebhook {
				if err := notification.SendResultWebhook(result); err != nil {
					logrus.Errorf("webhook notification failed: %v", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&tenantSelector, "tenants", "all", "Tenant ID, comma-separated list, or 'all'")
	cmd.Flags().IntVar(&monthOffset, "month-offset", 0, "0 = current calendar month, negative = prior months")
	cmd.Flags().BoolVar(&echoJSON, "json", false, "Echo the result object as JSON")
	cmd.Flags().BoolVar(&sendEmail, "email", false, "Deliver the HTML email report")
	cmd.Flags().BoolVar(&sendWebhook, "webhook", false, "Deliver the webhook payload")

	return cmd
}
