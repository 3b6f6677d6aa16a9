package codegen

import (
	"github.com/cockroachdb/errors"

	"github.com/aws/smithy-go-codegen/model"
)

// Sentinels generation errors are marked with. Test for them with
// errors.Is.
var (
	// ErrInvalidModel marks model invariant violations. Generation aborts.
	ErrInvalidModel = model.ErrInvalidModel

	// ErrMultiplePayloads marks a structure with more than one member bound
	// to the HTTP payload.
	ErrMultiplePayloads = errors.New("multiple httpPayload bindings")

	// ErrNoEventStream is returned when an event stream wrapper is requested
	// for an operation that has neither an input nor an output stream.
	ErrNoEventStream = errors.New("operation has no event stream")

	// ErrUnknownShape marks references to shapes missing from the model.
	ErrUnknownShape = errors.New("unknown shape")

	// ErrUnsupported marks model features the generator does not emit code
	// for. A protocol test depending on one fails generation unless it is
	// on the skip list.
	ErrUnsupported = errors.New("unsupported feature")
)
