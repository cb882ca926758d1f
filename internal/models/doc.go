// Package models defines the domain types shared by the catalog services, the batch engine and the change journal.
//
// The package contains two categories of types:
//
// 1. Catalog values: data read from or written to the remote catalog
//   - [Item] : A catalog entry with its ordered image [Gallery]
//   - [Image] : One gallery entry as returned by the item API
//   - [ImageRef] : One gallery entry as written back, either by id or by source URL
//   - [MediaRef] : A user supplied image reference (URL or title) awaiting resolution
//
// 2. Run parameters: values that configure a batch run
//   - [MutationRequest] : Mode, target and position applied to every item of a batch
//   - [Order], [Mode], [Position], [ReplaceLimit]
//
// 3. Journal entities: rows of the change journal
//   - [Run] : One run with its parameters and totals
//   - [Change] : One item outcome within a run
//
// Parse functions wrap [shared.ErrValidation] so callers can report bad input uniformly.
package models
