// Package records defines the raw executive record model and batch
// validation rules applied before matching.
package records
