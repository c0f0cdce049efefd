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
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/treasuryops/taxrecon/config"
)

// Source collection names, identical in every tenant database.
const (
	collPayments         = "payments"
	collTaxDistributions = "taxdistributions"
	collMiscReceipts     = "miscreceipts"
	collRevenueUnits     = "revenueunits"
	collMortgages        = "mortgages"
	collFunds            = "funds"
	collGLPostings       = "glpostings"
)

const connectTimeout = 10 * time.Second

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var instanceMu sync.Mutex

// Datasource wraps the shared MongoDB client. The mongo client is safe for
// concurrent use, so the per-tenant domain aggregations may run in
// parallel over this one handle.
type Datasource struct {
	client   *mongo.Client
	dbPrefix string
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and
// initializes it if it's not already. A failed connect leaves the singleton
// unset so a later call can attempt a fresh connection.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	instanceMu.Lock()
	defer instanceMu.Unlock()
	if instance != nil {
		return instance, nil
	}

	client, err := connectMongo(configuration.DataSource.Dns)
	if err != nil {
		return nil, err
	}

	ds := &Datasource{client: client, dbPrefix: configuration.DataSource.DBPrefix}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := ds.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "mongodb ping error")
	}

	logrus.Info("mongodb connected")
	instance = ds
	return instance, nil
}

func connectMongo(dns string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dns))
	if err != nil {
		return nil, errors.Wrap(err, "mongodb connection error")
	}
	return client, nil
}

// tenantDB selects the tenant's physical database by naming convention.
func (d *Datasource) tenantDB(tenantID string) *mongo.Database {
	return d.client.Database(d.dbPrefix + tenantID)
}

func (d *Datasource) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *Datasource) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
