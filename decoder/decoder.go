// Package decoder defines the boundary between the merge-and-index engine
// and the capture-format collaborator that turns chunk files into
// trace.Record values. Decoding itself is treated as external; this
// package carries only the contract plus one concrete implementation
// (reference.go) exercising it end to end.
package decoder

import (
	"errors"

	"github.com/nicerx/waterfallidx/trace"
)

// ErrSkip is returned by Iterator.Next to mean "this record failed to
// decode, count it and keep going", not fatal.
var ErrSkip = errors.New("decoder: record skipped")

// Iterator yields trace.Record values in file order. Next returns
// io.EOF when the stream is exhausted. An error wrapping ErrSkip means
// the current record could not be decoded but the stream is still
// good; any other error is fatal and aborts the whole chunk.
type Iterator interface {
	Next() (trace.Record, error)
	Close() error
}

// Opener opens a chunk file by path and returns an Iterator over its
// records.
type Opener interface {
	Open(path string) (Iterator, error)
}
