package traits

// JSONName represents smithy.api#jsonName.
type JSONName struct {
	Name string
}

// TraitID identifies the trait.
func (*JSONName) TraitID() string { return "smithy.api#jsonName" }

// MediaType represents smithy.api#mediaType.
type MediaType struct {
	Type string
}

// TraitID identifies the trait.
func (*MediaType) TraitID() string { return "smithy.api#mediaType" }

// TimestampFormat represents smithy.api#timestampFormat.
//
// Format is one of "date-time", "http-date" or "epoch-seconds".
type TimestampFormat struct {
	Format string
}

// TraitID identifies the trait.
func (*TimestampFormat) TraitID() string { return "smithy.api#timestampFormat" }
