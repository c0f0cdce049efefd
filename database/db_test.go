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
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/treasuryops/taxrecon/config"
)

func TestNewDataSourceFailsBeforeAnyTenantProcessing(t *testing.T) {
	cnf := &config.Configuration{}
	cnf.DataSource.Dns = "://not-a-mongodb-uri"
	cnf.DataSource.DBPrefix = config.DEFAULT_DB_PREFIX

	ds, err := NewDataSource(cnf)
	assert.Error(t, err, "an unreachable data source must surface at startup")
	assert.Nil(t, ds, "no handle may exist when the connection failed")
	assert.Nil(t, instance, "a failed connect must not install the singleton")
}

func TestGetDBConnectionFailureDoesNotPoisonLaterAttempts(t *testing.T) {
	cnf := &config.Configuration{}
	cnf.DataSource.Dns = "://not-a-mongodb-uri"

	_, err := GetDBConnection(cnf)
	assert.Error(t, err)

	// the second attempt must fail the same way, never hand out a nil handle
	ds, err := GetDBConnection(cnf)
	assert.Error(t, err)
	assert.Nil(t, ds)
}
