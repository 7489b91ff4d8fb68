// Package srs implements the vocabulary scheduler: a multiplicative interval
// update driven by a three-level rating, with separate factor tables for the
// learning and review phases, and the due-detection rule used by the sweep.
//
// Everything here is pure; callers supply the current time.
package srs
