package domain

import "errors"

var (
	ErrCatalogNotLoaded = errors.New("catalog not loaded")
	ErrMalformedCatalog = errors.New("malformed sentiment catalog")
	ErrFetchStatus      = errors.New("unexpected fetch status")
	ErrArtifactTooLarge = errors.New("sentiment artifact too large")
	ErrUnknownEntity    = errors.New("unknown entity")
	ErrUnknownCategory  = errors.New("unknown sentiment category")
	ErrSegmentHidden    = errors.New("segment is hidden")
)
