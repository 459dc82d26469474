package recorder

import "errors"

var (
	// ErrMissingCapability is returned when a required collaborator is absent.
	ErrMissingCapability = errors.New("missing recorder capability")
	// ErrInvalidReportPath is returned when a spec name cannot be mapped to a
	// file under the logs directory.
	ErrInvalidReportPath = errors.New("invalid report path")
)
