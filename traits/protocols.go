package traits

// RestJSON1 represents aws.protocols#restJson1, applied to services.
type RestJSON1 struct {
	HTTP      []string
	EventHTTP []string
}

// TraitID identifies the trait.
func (*RestJSON1) TraitID() string { return "aws.protocols#restJson1" }
