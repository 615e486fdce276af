package domain

import "errors"

// ErrMalformedInput is returned when a stage table or seed list is structurally invalid.
var ErrMalformedInput = errors.New("malformed input")

// ErrMissingStage is returned when a stage's next id has no corresponding stage.
var ErrMissingStage = errors.New("missing stage")

// ErrEmptyResult is returned when a minimum is requested over an empty range set.
var ErrEmptyResult = errors.New("empty result")
