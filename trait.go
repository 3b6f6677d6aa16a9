package smithy

// Trait represents a trait applied to a shape in a Smithy model. The code
// generator resolves wire bindings from traits, and traits related to
// (de)serialization are carried on the schemas generated clients use at
// runtime.
//
// Implementations are pointer types so a nil value can still report its ID.
type Trait interface {
	TraitID() string
}
