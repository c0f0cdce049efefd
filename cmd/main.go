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
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	taxrecon "github.com/treasuryops/taxrecon"
	"github.com/treasuryops/taxrecon/config"
	"github.com/treasuryops/taxrecon/database"
	"github.com/treasuryops/taxrecon/internal/notification"
)

// TaxRecon represents the CLI application, encapsulating the root Cobra command.
type TaxRecon struct {
	cmd *cobra.Command
}

// reconInstance holds the Reconciler instance and its configuration.
type reconInstance struct {
	recon *taxrecon.Reconciler
	cnf   *config.Configuration
}

// recoverPanic handles any panics during program execution and logs the error using Logrus.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun sets up the configuration and initializes the Reconciler before running any command.
// A data source that cannot be reached at startup is fatal before any tenant is processed.
func preRun(app *reconInstance, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(*configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newRecon, err := setupReconciler(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.recon = newRecon
		app.cnf = cnf

		return nil
	}
}

// setupReconciler creates and initializes a new Reconciler based on the provided configuration.
// It connects to the data source using the configuration settings.
func setupReconciler(cfg *config.Configuration) (*taxrecon.Reconciler, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	return taxrecon.NewReconciler(db), nil
}

// NewCLI creates the command-line interface (CLI) for the reconciliation tool.
func NewCLI() *TaxRecon {
	var configFile string
	b := &reconInstance{}

	var rootCmd = &cobra.Command{
		Use:   "taxrecon",
		Short: "Apportionment vs GL reconciliation for multi-tenant tax revenue",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./taxrecon.json", "Configuration file for taxrecon")

	rootCmd.PersistentPreRunE = preRun(b, &configFile)

	rootCmd.AddCommand(checkCommands(b))

	return &TaxRecon{cmd: rootCmd}
}

// executeCLI runs the root command, handling any errors that occur during execution.
func (w TaxRecon) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
