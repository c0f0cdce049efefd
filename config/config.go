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

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_DB_PREFIX  = "county_"
	DEFAULT_REPORT_DIR = "./reports"
)

var ConfigStore atomic.Value

// Tenant is one entry of the configured tenant roster. The physical
// database for a tenant is selected by naming convention from its ID.
type Tenant struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	NoPriorTax bool   `json:"no_prior_tax"`
}

type DataSourceConfig struct {
	Dns      string `json:"dns" envconfig:"TAXRECON_DATA_SOURCE_DNS"`
	DBPrefix string `json:"db_prefix" envconfig:"TAXRECON_DATA_SOURCE_DB_PREFIX"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type EmailConfig struct {
	Host     string   `json:"host" envconfig:"TAXRECON_SMTP_HOST"`
	Port     int      `json:"port" envconfig:"TAXRECON_SMTP_PORT"`
	Username string   `json:"username" envconfig:"TAXRECON_SMTP_USERNAME"`
	Password string   `json:"password" envconfig:"TAXRECON_SMTP_PASSWORD"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Email   EmailConfig  `json:"email"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type Configuration struct {
	ProjectName  string           `json:"project_name" envconfig:"TAXRECON_PROJECT_NAME"`
	ReportDir    string           `json:"report_dir" envconfig:"TAXRECON_REPORT_DIR"`
	DataSource   DataSourceConfig `json:"data_source"`
	Tenants      []Tenant         `json:"tenants"`
	Notification Notification     `json:"notification"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("taxrecon", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called taxrecon.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Tax Recon"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.DataSource.DBPrefix = strings.TrimSpace(cnf.DataSource.DBPrefix)
	cnf.ReportDir = strings.TrimSpace(cnf.ReportDir)

	if cnf.DataSource.DBPrefix == "" {
		cnf.DataSource.DBPrefix = DEFAULT_DB_PREFIX
		log.Printf("Warning: DB prefix not specified in config. Setting default prefix: %s", DEFAULT_DB_PREFIX)
	}

	if cnf.ReportDir == "" {
		cnf.ReportDir = DEFAULT_REPORT_DIR
	}

	if len(cnf.Tenants) == 0 {
		log.Println("Warning: Tenant roster is empty. Only explicit tenant IDs can be checked.")
	}

	seen := map[string]bool{}
	for _, tenant := range cnf.Tenants {
		if tenant.ID == "" {
			return errors.New("tenant with empty id in roster")
		}
		if seen[tenant.ID] {
			return fmt.Errorf("duplicate tenant id in roster: %s", tenant.ID)
		}
		seen[tenant.ID] = true
	}

	return nil
}

// ResolveTenants resolves a tenant selector against the configured roster.
// The selector is a single tenant ID, a comma-separated list of IDs, or the
// "all" sentinel. IDs not present in the roster resolve to a tenant with
// default flags so ad hoc checks remain possible.
func (cnf *Configuration) ResolveTenants(selector string) ([]Tenant, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, errors.New("no tenants selected")
	}

	if strings.EqualFold(selector, "all") {
		if len(cnf.Tenants) == 0 {
			return nil, errors.New("tenant selector is 'all' but the configured roster is empty")
		}
		return cnf.Tenants, nil
	}

	roster := make(map[string]Tenant, len(cnf.Tenants))
	for _, tenant := range cnf.Tenants {
		roster[tenant.ID] = tenant
	}

	var selected []Tenant
	for _, raw := range strings.Split(selector, ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if tenant, ok := roster[id]; ok {
			selected = append(selected, tenant)
			continue
		}
		selected = append(selected, Tenant{ID: id, Name: id})
	}
	if len(selected) == 0 {
		return nil, errors.New("no tenants selected")
	}
	return selected, nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
