package dispatch

import "errors"

// ErrMissingSection is reported when a requested title is absent from the
// parsed document.
var ErrMissingSection = errors.New("section not found in report")
