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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxrecon.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInitConfigAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_source": {"dns": "mongodb://localhost:27017"},
		"tenants": [{"id": "acme", "name": "Acme County"}]
	}`)

	require.NoError(t, InitConfig(path))
	cnf, err := Fetch()
	require.NoError(t, err)

	assert.Equal(t, "Tax Recon", cnf.ProjectName)
	assert.Equal(t, DEFAULT_DB_PREFIX, cnf.DataSource.DBPrefix)
	assert.Equal(t, DEFAULT_REPORT_DIR, cnf.ReportDir)
}

func TestInitConfigRequiresDataSource(t *testing.T) {
	path := writeConfigFile(t, `{"tenants": []}`)
	assert.Error(t, InitConfig(path))
}

func TestInitConfigRejectsDuplicateTenantIDs(t *testing.T) {
	path := writeConfigFile(t, `{
		"data_source": {"dns": "mongodb://localhost:27017"},
		"tenants": [{"id": "acme"}, {"id": "acme"}]
	}`)
	assert.Error(t, InitConfig(path))
}

func TestResolveTenants(t *testing.T) {
	cnf := &Configuration{Tenants: []Tenant{
		{ID: "acme", Name: "Acme County", NoPriorTax: true},
		{ID: "bravo", Name: "Bravo County"},
	}}

	all, err := cnf.ResolveTenants("all")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := cnf.ResolveTenants("acme")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.True(t, one[0].NoPriorTax, "roster flags must carry through")

	list, err := cnf.ResolveTenants("bravo, acme")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bravo", list[0].ID)
	assert.Equal(t, "acme", list[1].ID)

	adhoc, err := cnf.ResolveTenants("charlie")
	require.NoError(t, err)
	require.Len(t, adhoc, 1)
	assert.False(t, adhoc[0].NoPriorTax, "unknown IDs resolve with default flags")

	_, err = cnf.ResolveTenants("")
	assert.Error(t, err)
}

func TestResolveTenantsAllRequiresRoster(t *testing.T) {
	cnf := &Configuration{}
	_, err := cnf.ResolveTenants("all")
	assert.Error(t, err)
}
