// Package traits defines representations of Smithy IDL traits that drive
// protocol code generation and appear in code-generated schemas.
package traits

// Sensitive represents smithy.api#sensitive.
type Sensitive struct{}

// TraitID identifies the trait.
func (*Sensitive) TraitID() string { return "smithy.api#sensitive" }

// Required represents smithy.api#required.
type Required struct{}

// TraitID identifies the trait.
func (*Required) TraitID() string { return "smithy.api#required" }

// Error represents smithy.api#error. Kind is "client" or "server".
type Error struct {
	Kind string
}

// TraitID identifies the trait.
func (*Error) TraitID() string { return "smithy.api#error" }

// EventHeader represents smithy.api#eventHeader.
type EventHeader struct{}

// TraitID identifies the trait.
func (*EventHeader) TraitID() string { return "smithy.api#eventHeader" }

// EventPayload represents smithy.api#eventPayload.
type EventPayload struct{}

// TraitID identifies the trait.
func (*EventPayload) TraitID() string { return "smithy.api#eventPayload" }

// Streaming represents smithy.api#streaming.
type Streaming struct{}

// TraitID identifies the trait.
func (*Streaming) TraitID() string { return "smithy.api#streaming" }

// RequiresLength represents smithy.api#requiresLength.
type RequiresLength struct{}

// TraitID identifies the trait.
func (*RequiresLength) TraitID() string { return "smithy.api#requiresLength" }

// IdempotencyToken represents smithy.api#idempotencyToken.
type IdempotencyToken struct{}

// TraitID identifies the trait.
func (*IdempotencyToken) TraitID() string { return "smithy.api#idempotencyToken" }

// HostLabel represents smithy.api#hostLabel.
type HostLabel struct{}

// TraitID identifies the trait.
func (*HostLabel) TraitID() string { return "smithy.api#hostLabel" }

// Endpoint represents smithy.api#endpoint.
type Endpoint struct {
	HostPrefix string
}

// TraitID identifies the trait.
func (*Endpoint) TraitID() string { return "smithy.api#endpoint" }

// RequestCompression represents smithy.api#requestCompression.
type RequestCompression struct {
	Encodings []string
}

// TraitID identifies the trait.
func (*RequestCompression) TraitID() string { return "smithy.api#requestCompression" }

// Documentation represents smithy.api#documentation.
type Documentation struct {
	Value string
}

// TraitID identifies the trait.
func (*Documentation) TraitID() string { return "smithy.api#documentation" }
