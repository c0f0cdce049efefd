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

package taxrecon

import (
	"github.com/treasuryops/taxrecon/database"
)

// Reconciler drives apportionment/GL reconciliation checks over a shared
// read-only data source handle.
type Reconciler struct {
	datasource database.IDataSource
}

// NewReconciler initializes a Reconciler with the provided data source.
func NewReconciler(db database.IDataSource) *Reconciler {
	return &Reconciler{datasource: db}
}
