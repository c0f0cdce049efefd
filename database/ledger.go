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

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/treasuryops/taxrecon/model"
)

const fundUsageApportionment = "apportionment"

// LookupFunds resolves GL fund keys to the tenant's internal fund
// identifiers, filtered to apportionment-usage funds of the given calendar
// year. Fund keys without a matching fund are simply absent from the map.
func (d *Datasource) LookupFunds(ctx context.Context, tenantID string, fundKeys []string, year int) (map[string]string, error) {
	filter := bson.M{
		"fundKey":   bson.M{"$in": fundKeys},
		"usageType": fundUsageApportionment,
		"year":      year,
	}

	cursor, err := d.tenantDB(tenantID).Collection(collFunds).Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "fund lookup failed for tenant %s", tenantID)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		FundKey string `bson:"fundKey"`
		FundID  string `bson:"fundId"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrapf(err, "fund lookup decode failed for tenant %s", tenantID)
	}

	funds := make(map[string]string, len(rows))
	for _, row := range rows {
		funds[row.FundKey] = row.FundID
	}
	return funds, nil
}

// FundPostedNets sums ledger postings per fund over the window and returns
// net = deposits - payments - transfersOut keyed by fund key.
func (d *Datasource) FundPostedNets(ctx context.Context, tenantID string, funds map[string]string, window model.DateWindow) (map[string]float64, error) {
	if len(funds) == 0 {
		return map[string]float64{}, nil
	}

	fundIDs := make([]string, 0, len(funds))
	keyByID := make(map[string]string, len(funds))
	for key, id := range funds {
		fundIDs = append(fundIDs, id)
		keyByID[id] = key
	}

	match := dateFilter("postingDate", window)
	match["fundId"] = bson.M{"$in": fundIDs}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$fundId",
			"deposits":     bson.M{"$sum": "$deposits"},
			"payments":     bson.M{"$sum": "$payments"},
			"transfersOut": bson.M{"$sum": "$transfersOut"},
		}}},
	}

	cursor, err := d.tenantDB(tenantID).Collection(collGLPostings).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "ledger posting aggregation failed for tenant %s", tenantID)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		FundID       string  `bson:"_id"`
		Deposits     float64 `bson:"deposits"`
		Payments     float64 `bson:"payments"`
		TransfersOut float64 `bson:"transfersOut"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrapf(err, "ledger posting decode failed for tenant %s", tenantID)
	}

	nets := make(map[string]float64, len(rows))
	for _, row := range rows {
		key, ok := keyByID[row.FundID]
		if !ok {
			continue
		}
		nets[key] = row.Deposits - row.Payments - row.TransfersOut
	}
	return nets, nil
}
