// Package pipeline orchestrates a full identity-resolution pass: load raw
// records, score and group them, persist the run, export the review
// artifact, walk the interactive review, and write canonical output to the
// configured sink.
//
// A pass holds an exclusive file lock for its whole duration so two
// operators can never race on the same run database. When uncertain groups
// are left undecided the run parks in awaiting_review and a later Resume
// picks up exactly the remaining pending clusters.
package pipeline
