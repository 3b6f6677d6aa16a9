package codegen

import (
	"fmt"

	"github.com/cockroachdb/errors"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/traits"
)

// PayloadKind is the variant of a member bound to the HTTP payload. The
// variants are in the priority order payload emission branches on.
type PayloadKind int

// Enumerates PayloadKind.
const (
	PayloadNone PayloadKind = iota

	// PayloadEventStream is a streaming union. The body is a stream of
	// framed events and has no length.
	PayloadEventStream

	// PayloadStreamingBlobWithLength is a streaming blob with the
	// requiresLength trait. The length is measured before sending.
	PayloadStreamingBlobWithLength

	// PayloadStreamingBlob is a streaming blob of unknown length.
	PayloadStreamingBlob

	PayloadBlob
	PayloadString
	PayloadStructure
	PayloadUnion
	PayloadDocument
)

var payloadKindNames = [...]string{
	PayloadNone:                    "none",
	PayloadEventStream:             "eventStream",
	PayloadStreamingBlobWithLength: "streamingBlobWithLength",
	PayloadStreamingBlob:           "streamingBlob",
	PayloadBlob:                    "blob",
	PayloadString:                  "string",
	PayloadStructure:               "structure",
	PayloadUnion:                   "union",
	PayloadDocument:                "document",
}

func (k PayloadKind) String() string {
	if k < 0 || int(k) >= len(payloadKindNames) {
		return "unknown"
	}
	return payloadKindNames[k]
}

// IsStreaming reports whether the payload is read or written as a stream.
func (k PayloadKind) IsStreaming() bool {
	switch k {
	case PayloadEventStream, PayloadStreamingBlobWithLength, PayloadStreamingBlob:
		return true
	default:
		return false
	}
}

func payloadKind(m *smithy.Schema) (PayloadKind, error) {
	streaming := smithy.HasSchemaTrait[*traits.Streaming](m)

	switch m.Type() {
	case smithy.ShapeTypeUnion:
		if streaming {
			return PayloadEventStream, nil
		}
		return PayloadUnion, nil
	case smithy.ShapeTypeBlob:
		if streaming && smithy.HasSchemaTrait[*traits.RequiresLength](m) {
			return PayloadStreamingBlobWithLength, nil
		}
		if streaming {
			return PayloadStreamingBlob, nil
		}
		return PayloadBlob, nil
	case smithy.ShapeTypeString, smithy.ShapeTypeEnum:
		return PayloadString, nil
	case smithy.ShapeTypeStructure:
		return PayloadStructure, nil
	case smithy.ShapeTypeDocument:
		return PayloadDocument, nil
	}

	return PayloadNone, errors.Mark(
		fmt.Errorf("member %s targets %s, which cannot be bound to the payload", m.MemberName(), m.Type()),
		ErrInvalidModel)
}
