package traits

// HTTPMessageTestCase holds the fields shared by request and response
// compliance test cases.
type HTTPMessageTestCase struct {
	ID             string            `json:"id"`
	Protocol       string            `json:"protocol"`
	Documentation  string            `json:"documentation,omitempty"`
	AuthScheme     string            `json:"authScheme,omitempty"`
	Headers        map[string]string `json:"headers,omitempty"`
	ForbidHeaders  []string          `json:"forbidHeaders,omitempty"`
	RequireHeaders []string          `json:"requireHeaders,omitempty"`
	Body           *string           `json:"body,omitempty"`
	BodyMediaType  string            `json:"bodyMediaType,omitempty"`
	Params         map[string]any    `json:"params,omitempty"`
	AppliesTo      string            `json:"appliesTo,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
}

// HTTPRequestTestCase is one entry of smithy.test#httpRequestTests.
type HTTPRequestTestCase struct {
	HTTPMessageTestCase

	Method             string   `json:"method"`
	URI                string   `json:"uri"`
	Host               string   `json:"host,omitempty"`
	QueryParams        []string `json:"queryParams,omitempty"`
	ForbidQueryParams  []string `json:"forbidQueryParams,omitempty"`
	RequireQueryParams []string `json:"requireQueryParams,omitempty"`
}

// HTTPResponseTestCase is one entry of smithy.test#httpResponseTests.
type HTTPResponseTestCase struct {
	HTTPMessageTestCase

	Code int `json:"code"`
}

// HTTPRequestTests represents smithy.test#httpRequestTests.
type HTTPRequestTests struct {
	Cases []HTTPRequestTestCase
}

// TraitID identifies the trait.
func (*HTTPRequestTests) TraitID() string { return "smithy.test#httpRequestTests" }

// HTTPResponseTests represents smithy.test#httpResponseTests.
type HTTPResponseTests struct {
	Cases []HTTPResponseTestCase
}

// TraitID identifies the trait.
func (*HTTPResponseTests) TraitID() string { return "smithy.test#httpResponseTests" }
