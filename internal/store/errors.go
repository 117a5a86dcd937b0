package store

import "errors"

var (
	// ErrExtractionIncomplete marks a listing whose required fields (name,
	// address) are missing. The UI and the persistence layer both require
	// them to be non-null.
	ErrExtractionIncomplete = errors.New("extracted listing is missing required fields")

	// ErrInvalidCategory marks an onboarding request whose category code is
	// not a member of the fixed category set.
	ErrInvalidCategory = errors.New("unknown category code")

	// ErrPersistence marks a failed onboarding transaction. No partial rows
	// remain when it is returned.
	ErrPersistence = errors.New("persistence failure")

	// ErrStoreNotFound is returned by lookups for ids that were never
	// onboarded (or already deleted).
	ErrStoreNotFound = errors.New("store not found")
)
