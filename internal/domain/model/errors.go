package model

import "errors"

// ErrMalformedPayload is returned by event decoders when a required field is
// absent or ill-typed (spec.md §4.A).
var ErrMalformedPayload = errors.New("malformed payload")
