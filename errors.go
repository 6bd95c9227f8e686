package spritemeta

import "errors"

var (
	// ErrImageLoad is returned when the input cannot be read or decoded.
	// It terminates the analysis; no partial result is produced.
	ErrImageLoad = errors.New("spritemeta: failed to load image")

	// ErrEmptyAnalysis is returned when an image resolves to a sprite sheet
	// but no regions were found to build rows from.
	ErrEmptyAnalysis = errors.New("spritemeta: no valid regions found")

	// ErrOracleUnavailable marks any failure talking to an Oracle. Analyzer
	// absorbs it and keeps the heuristic result.
	ErrOracleUnavailable = errors.New("spritemeta: oracle unavailable")
)
