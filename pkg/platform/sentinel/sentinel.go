package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Store adapters return these
// (optionally wrapped) so services and handlers can translate them into
// domain errors.
//
// ErrNotFound means the account has no row in the appraisal store; it is a
// factual state, not a validation failure. For bad input use
// pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
