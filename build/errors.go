package build

import "errors"

var (
	// ErrInputMissing means no chunk paths were given to Run.
	ErrInputMissing = errors.New("build: no input chunks")
	// ErrGridDrift means a record's grid matched a band's key but
	// failed the reconciliation tolerance check; the record is
	// rejected and the band continues.
	ErrGridDrift = errors.New("build: grid drift beyond tolerance")
	// ErrMalformedAxis means a record's own frequency axis failed its
	// basic invariants (strictly increasing, uniformly spaced); it is
	// treated as a decode-level skip, not a classifier rejection.
	ErrMalformedAxis = errors.New("build: malformed frequency axis")
	// ErrEmptyBand means a band accepted zero records; it is dropped
	// with a warning, not sealed.
	ErrEmptyBand = errors.New("build: band has zero accepted records")
	// ErrDecodeFatal means an Iterator returned an error other than
	// io.EOF or one wrapping decoder.ErrSkip: the chunk stream itself is
	// broken, not just one malformed record.
	ErrDecodeFatal = errors.New("build: fatal decode error")
)
