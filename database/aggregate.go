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

// dateFilter is the inclusive window predicate shared by every aggregation.
func dateFilter(field string, window model.DateWindow) bson.M {
	return bson.M{field: bson.M{"$gte": window.From, "$lte": window.To}}
}

type taxGroupRow struct {
	ID struct {
		TaxYear    int `bson:"taxYear"`
		DistrictID int `bson:"districtId"`
	} `bson:"_id"`
	TaxAmt     float64 `bson:"taxAmt"`
	PenaltyAmt float64 `bson:"penaltyAmt"`
	FeeAmt     float64 `bson:"feeAmt"`
	Total      float64 `bson:"total"`
}

// TaxPaymentSums aggregates the nested payment collection. Each payment
// embeds its apportionment sub-records; the pipeline unwinds them and sums
// the components grouped by (taxYear, districtId). Tax-exempt and
// under-protest payments are excluded with the same predicate the flat
// distribution aggregation uses.
func (d *Datasource) TaxPaymentSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error) {
	match := dateFilter("receiptDate", window)
	match["taxExempt"] = bson.M{"$ne": true}
	match["underProtest"] = bson.M{"$ne": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$unwind", Value: "$apportionments"}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"taxYear":    "$apportionments.taxYear",
				"districtId": "$apportionments.districtId",
			},
			"taxAmt":     bson.M{"$sum": "$apportionments.taxAmt"},
			"penaltyAmt": bson.M{"$sum": "$apportionments.penaltyAmt"},
			"feeAmt":     bson.M{"$sum": "$apportionments.feeAmt"},
		}}},
	}

	rows, err := d.aggregateTaxRows(ctx, tenantID, collPayments, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "tax payment aggregation failed for tenant %s", tenantID)
	}

	sums := make([]model.TaxGroupSum, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, model.TaxGroupSum{
			TaxYear:    row.ID.TaxYear,
			DistrictID: row.ID.DistrictID,
			TaxAmt:     row.TaxAmt,
			PenaltyAmt: row.PenaltyAmt,
			FeeAmt:     row.FeeAmt,
		})
	}
	return sums, nil
}

// TaxDistributionSums aggregates the flat distribution collection into the
// posted totals grouped by the same (taxYear, districtId) key space. This
// side feeds the GL view of the tax categories.
func (d *Datasource) TaxDistributionSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.TaxGroupSum, error) {
	match := dateFilter("distributionDate", window)
	match["taxExempt"] = bson.M{"$ne": true}
	match["underProtest"] = bson.M{"$ne": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"taxYear":    "$taxYear",
				"districtId": "$districtId",
			},
			"total": bson.M{"$sum": "$total"},
		}}},
	}

	rows, err := d.aggregateTaxRows(ctx, tenantID, collTaxDistributions, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "tax distribution aggregation failed for tenant %s", tenantID)
	}

	sums := make([]model.TaxGroupSum, 0, len(rows))
	for _, row := range rows {
		sums = append(sums, model.TaxGroupSum{
			TaxYear:    row.ID.TaxYear,
			DistrictID: row.ID.DistrictID,
			GLTotal:    row.Total,
		})
	}
	return sums, nil
}

func (d *Datasource) aggregateTaxRows(ctx context.Context, tenantID, collection string, pipeline mongo.Pipeline) ([]taxGroupRow, error) {
	cursor, err := d.tenantDB(tenantID).Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []taxGroupRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// MiscGrandTotal sums misc receipts over the window, excluding records
// flagged as special apportionments.
func (d *Datasource) MiscGrandTotal(ctx context.Context, tenantID string, window model.DateWindow) (float64, error) {
	match := dateFilter("receiptDate", window)
	match["specialApportionment"] = bson.M{"$ne": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cursor, err := d.tenantDB(tenantID).Collection(collMiscReceipts).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errors.Wrapf(err, "misc grand total aggregation failed for tenant %s", tenantID)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, errors.Wrapf(err, "misc grand total decode failed for tenant %s", tenantID)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// MiscUnitSums groups misc receipts by revenue unit and joins each unit
// against the unit-to-category lookup collection. Units without a lookup
// row come back with an empty category; classification of the residual is
// the engine's job, not the query's.
func (d *Datasource) MiscUnitSums(ctx context.Context, tenantID string, window model.DateWindow) ([]model.UnitSum, error) {
	match := dateFilter("receiptDate", window)
	match["specialApportionment"] = bson.M{"$ne": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$unitId",
			"amount": bson.M{"$sum": "$amount"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         collRevenueUnits,
			"localField":   "_id",
			"foreignField": "unitId",
			"as":           "unit",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$unit",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := d.tenantDB(tenantID).Collection(collMiscReceipts).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrapf(err, "misc unit aggregation failed for tenant %s", tenantID)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Unit   string  `bson:"_id"`
		Amount float64 `bson:"amount"`
		Ref    struct {
			Category string `bson:"category"`
		} `bson:"unit"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, errors.Wrapf(err, "misc unit decode failed for tenant %s", tenantID)
	}

	units := make([]model.UnitSum, 0, len(rows))
	for _, row := range rows {
		units = append(units, model.UnitSum{
			Unit:     row.Unit,
			Category: row.Ref.Category,
			Amount:   row.Amount,
		})
	}
	return units, nil
}

// MortgageSums returns the mortgage grouped total split into its tax and
// fee components, excluding correction entries.
func (d *Datasource) MortgageSums(ctx context.Context, tenantID string, window model.DateWindow) (model.MortgageSum, error) {
	match := dateFilter("receiptDate", window)
	match["isCorrection"] = bson.M{"$ne": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":    nil,
			"taxAmt": bson.M{"$sum": "$taxAmt"},
			"feeAmt": bson.M{"$sum": "$feeAmt"},
		}}},
	}

	cursor, err := d.tenantDB(tenantID).Collection(collMortgages).Aggregate(ctx, pipeline)
	if err != nil {
		return model.MortgageSum{}, errors.Wrapf(err, "mortgage aggregation failed for tenant %s", tenantID)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		TaxAmt float64 `bson:"taxAmt"`
		FeeAmt float64 `bson:"feeAmt"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return model.MortgageSum{}, errors.Wrapf(err, "mortgage decode failed for tenant %s", tenantID)
	}
	if len(rows) == 0 {
		return model.MortgageSum{}, nil
	}
	return model.MortgageSum{TaxAmt: rows[0].TaxAmt, FeeAmt: rows[0].FeeAmt}, nil
}
