package interfaces

import "errors"

// ErrCapabilityUnavailable indicates an optional collaborator (geometry table
// extraction, OCR) is not present. Callers degrade to a fallback path and
// record an issue instead of failing the run.
var ErrCapabilityUnavailable = errors.New("capability unavailable")
