package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors without
// depending on a concrete store implementation.
//
// These represent factual states about stored documents, not validation
// failures:
// - ErrNotFound: document does not exist in the store
// - ErrConflict: a uniqueness constraint (e.g. profile email) was violated
// - ErrUnavailable: the store is temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
