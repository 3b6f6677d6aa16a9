package restjson

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	smithy "github.com/aws/smithy-go-codegen"
	"github.com/aws/smithy-go-codegen/codegen"
	"github.com/aws/smithy-go-codegen/codegen/sink"
	"github.com/aws/smithy-go-codegen/logging"
	"github.com/aws/smithy-go-codegen/ptr"
	"github.com/aws/smithy-go-codegen/traits"
)

func id(name string) smithy.ShapeID {
	return smithy.ShapeID{Namespace: "com.example", Name: name}
}

func prelude(name string) smithy.ShapeID {
	return smithy.ShapeID{Namespace: "smithy.api", Name: name}
}

type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) Logf(c logging.Classification, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, string(c)+" "+fmt.Sprintf(format, v...))
}

func (l *recordingLogger) contains(s string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.Contains(e, s) {
			return true
		}
	}
	return false
}

// weatherModel is a restJson1 service covering each kind of request and
// response body.
func weatherModel(t *testing.T) *smithy.Model {
	t.Helper()
	b := smithy.NewModelBuilder()

	// PutForecast: labels, query, header and a JSON document.
	b.AddShape(id("PutForecastInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("PutForecastInput"), "city", prelude("String"), &traits.HTTPLabel{}, &traits.Required{})
	b.AddMember(id("PutForecastInput"), "units", prelude("String"), &traits.HTTPQuery{Name: "units"})
	b.AddMember(id("PutForecastInput"), "trace", prelude("String"), &traits.HTTPHeader{Name: "X-Trace"})
	b.AddMember(id("PutForecastInput"), "high", prelude("Integer"))
	b.AddMember(id("PutForecastInput"), "notes", prelude("String"))
	b.AddOperation(id("PutForecast"), id("PutForecastInput"), smithy.ShapeID{}, []smithy.ShapeID{id("NoSuchCity")},
		&traits.HTTP{Method: "POST", URI: "/forecasts/{city}", Code: 200},
		&traits.HTTPRequestTests{Cases: []traits.HTTPRequestTestCase{
			{
				HTTPMessageTestCase: traits.HTTPMessageTestCase{
					ID:            "PutForecastWithDocument",
					Protocol:      Protocol,
					Documentation: "Serializes the forecast document.",
					Headers:       map[string]string{"x-trace": "abc", "Content-Type": "application/json"},
					Body:          ptr.String(`{"high":31,"notes":"sunny"}`),
					BodyMediaType: "application/json",
					Params: map[string]any{
						"city":  "Seattle",
						"units": "metric",
						"trace": "abc",
						"high":  31,
						"notes": "sunny",
					},
				},
				Method:      "POST",
				URI:         "/forecasts/Seattle",
				QueryParams: []string{"units=metric"},
			},
			{
				HTTPMessageTestCase: traits.HTTPMessageTestCase{
					ID:       "PutForecastSkipped",
					Protocol: Protocol,
					Params:   map[string]any{"city": "Oslo"},
				},
				Method: "POST",
				URI:    "/forecasts/Oslo",
			},
			{
				HTTPMessageTestCase: traits.HTTPMessageTestCase{
					ID:        "PutForecastServerOnly",
					Protocol:  Protocol,
					AppliesTo: "server",
					Params:    map[string]any{"city": "Lima"},
				},
				Method: "POST",
				URI:    "/forecasts/Lima",
			},
		}},
	)

	// GetCity: a GET whose input is bound entirely to the URI.
	b.AddShape(id("GetCityInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("GetCityInput"), "city", prelude("String"), &traits.HTTPLabel{}, &traits.Required{})
	b.AddShape(id("GetCityOutput"), smithy.ShapeTypeStructure)
	b.AddMember(id("GetCityOutput"), "etag", prelude("String"), &traits.HTTPHeader{Name: "ETag"})
	b.AddMember(id("GetCityOutput"), "status", prelude("Integer"), &traits.HTTPResponseCode{})
	b.AddMember(id("GetCityOutput"), "population", prelude("Long"))
	b.AddOperation(id("GetCity"), id("GetCityInput"), id("GetCityOutput"), []smithy.ShapeID{id("NoSuchCity")},
		&traits.HTTP{Method: "GET", URI: "/cities/{city}", Code: 200},
		&traits.HTTPResponseTests{Cases: []traits.HTTPResponseTestCase{
			{
				HTTPMessageTestCase: traits.HTTPMessageTestCase{
					ID:            "GetCityDocument",
					Protocol:      Protocol,
					Headers:       map[string]string{"ETag": "v1", "Content-Type": "application/json"},
					Body:          ptr.String(`{"population":100}`),
					BodyMediaType: "application/json",
					Params:        map[string]any{"etag": "v1", "status": 200, "population": 100},
				},
				Code: 200,
			},
		}},
	)

	// Ping: a POST whose input binds only a header.
	b.AddShape(id("PingInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("PingInput"), "trace", prelude("String"), &traits.HTTPHeader{Name: "X-Trace"})
	b.AddOperation(id("Ping"), id("PingInput"), smithy.ShapeID{}, nil,
		&traits.HTTP{Method: "POST", URI: "/ping", Code: 200})

	// Upload: a streaming blob of unknown length.
	b.AddShape(id("Data"), smithy.ShapeTypeBlob, &traits.Streaming{})
	b.AddShape(id("UploadInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("UploadInput"), "data", id("Data"), &traits.HTTPPayload{})
	b.AddOperation(id("Upload"), id("UploadInput"), smithy.ShapeID{}, nil,
		&traits.HTTP{Method: "PUT", URI: "/data", Code: 200})

	// UploadSized: a streaming blob that requires a length.
	b.AddShape(id("SizedData"), smithy.ShapeTypeBlob, &traits.Streaming{}, &traits.RequiresLength{})
	b.AddShape(id("UploadSizedInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("UploadSizedInput"), "data", id("SizedData"), &traits.HTTPPayload{})
	b.AddOperation(id("UploadSized"), id("UploadSizedInput"), smithy.ShapeID{}, nil,
		&traits.HTTP{Method: "PUT", URI: "/sized", Code: 200})

	// Watch: an output event stream.
	b.AddShape(id("Reading"), smithy.ShapeTypeStructure)
	b.AddMember(id("Reading"), "celsius", prelude("Double"))
	b.AddShape(id("Throttled"), smithy.ShapeTypeStructure, &traits.Error{Kind: "server"})
	b.AddShape(id("WeatherEvents"), smithy.ShapeTypeUnion, &traits.Streaming{})
	b.AddMember(id("WeatherEvents"), "reading", id("Reading"))
	b.AddMember(id("WeatherEvents"), "throttled", id("Throttled"))
	b.AddShape(id("WatchOutput"), smithy.ShapeTypeStructure)
	b.AddMember(id("WatchOutput"), "events", id("WeatherEvents"), &traits.HTTPPayload{})
	b.AddOperation(id("Watch"), smithy.ShapeID{}, id("WatchOutput"), nil,
		&traits.HTTP{Method: "GET", URI: "/watch", Code: 200})

	// NoSuchCity: a modeled error with a header and a document member.
	b.AddShape(id("NoSuchCity"), smithy.ShapeTypeStructure,
		&traits.Error{Kind: "client"}, &traits.HTTPError{Code: 404})
	b.AddMember(id("NoSuchCity"), "message", prelude("String"))
	b.AddMember(id("NoSuchCity"), "requestId", prelude("String"), &traits.HTTPHeader{Name: "X-Request-Id"})

	b.AddService(id("Weather"), "2024-01-01", []smithy.ShapeID{
		id("PutForecast"), id("GetCity"), id("Ping"), id("Upload"), id("UploadSized"), id("Watch"),
	}, &traits.RestJSON1{})

	m, err := b.Build()
	if err != nil {
		t.Fatalf("build model: %v", err)
	}
	return m
}

func generate(t *testing.T, settings *codegen.Settings) (*sink.MemorySink, *recordingLogger) {
	t.Helper()

	logger := &recordingLogger{}
	gc, err := codegen.NewGenerationContext(weatherModel(t), settings, NewWithSkipList(DefaultSkipList().With("PutForecastSkipped")), logger)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	s := sink.NewMemorySink()
	if err := codegen.Generate(context.Background(), gc, s); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	return s, logger
}

func defaultSettings() *codegen.Settings {
	return &codegen.Settings{
		Service:  "com.example#Weather",
		Package:  "weather",
		Protocol: Protocol,
	}
}

// function returns the source of the top level function name in src.
func function(t *testing.T, src, name string) string {
	t.Helper()

	start := strings.Index(src, "\nfunc "+name+"(")
	if start < 0 {
		t.Fatalf("function %s not found in:\n%s", name, src)
	}
	body := src[start+1:]
	if end := strings.Index(body, "\n}\n"); end >= 0 {
		body = body[:end+2]
	}
	return body
}

func assertContains(t *testing.T, src string, want, notWant []string) {
	t.Helper()
	for _, s := range want {
		if !strings.Contains(src, s) {
			t.Errorf("expected %q in:\n%s", s, src)
		}
	}
	for _, s := range notWant {
		if strings.Contains(src, s) {
			t.Errorf("expected no %q in:\n%s", s, src)
		}
	}
}

func TestGenerateFiles(t *testing.T) {
	s, _ := generate(t, defaultSettings())

	expect := []string{
		codegen.DeserializersFile,
		codegen.EventStreamFile,
		"protocol_restjson1_test.go",
		codegen.SerializersFile,
	}
	if e, a := strings.Join(expect, ","), strings.Join(s.Paths(), ","); e != a {
		t.Errorf("expected %v, got %v", e, a)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	first, _ := generate(t, defaultSettings())

	settings := defaultSettings()
	settings.Parallelism = 1
	second, _ := generate(t, settings)

	for _, path := range first.Paths() {
		if e, a := string(first.Get(path)), string(second.Get(path)); e != a {
			t.Errorf("%s differs between runs", path)
		}
	}
}

func TestSerializeDocumentBody(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := function(t, string(s.Get(codegen.SerializersFile)), "serializeOpPutForecast")

	assertContains(t, src, []string{
		`smithyhttp.NewRequest("POST", "/forecasts/{city}")`,
		`input member city must not be empty`,
		`encoder.SetURI("city").String(*input.City)`,
		`encoder.SetQuery("units").String(*input.Units)`,
		`encoder.SetHeader("X-Trace").String(*input.Trace)`,
		`if !encoder.HasHeader("Content-Type") {`,
		`encoder.SetHeader("Content-Type").String("application/json")`,
		`codec := &smithyjson.Codec{UseJSONName: true, TimestampFormat: smithytime.EpochSeconds, SkipHTTPBindings: true}`,
		`content := codec.Serialize(SchemaPutForecastInput, input)`,
		`content = []byte("{}")`,
		`contentLength = int64(len(content))`,
		`request, err = request.SetStream(bytes.NewReader(content))`,
		`request.ContentLength = contentLength`,
	}, nil)
}

func TestSerializeEmptyBody(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := string(s.Get(codegen.SerializersFile))

	assertContains(t, function(t, src, "serializeOpGetCity"), []string{
		`contentLength = 0`,
	}, []string{
		`SetStream`,
		`Content-Type`,
	})

	assertContains(t, function(t, src, "serializeOpPing"), []string{
		`contentLength = 2`,
		`request.SetStream(bytes.NewReader([]byte("{}")))`,
		`encoder.SetHeader("Content-Type").String("application/json")`,
	}, []string{
		`codec.Serialize`,
	})
}

func TestSerializeStreamingPayload(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := string(s.Get(codegen.SerializersFile))

	assertContains(t, function(t, src, "serializeOpUpload"), []string{
		`request, err = request.SetStream(input.Data)`,
		`encoder.SetHeader("Content-Type").String("application/octet-stream")`,
	}, []string{
		`contentLength =`,
		`SeekableBytesReader`,
	})

	assertContains(t, function(t, src, "serializeOpUploadSized"), []string{
		`body := smithyio.NewSeekableBytesReader(input.Data)`,
		`end, err := body.Seek(0, io.SeekEnd)`,
		`body.Seek(0, io.SeekStart)`,
		`contentLength = end`,
	}, nil)
}

func TestDeserializeResponse(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := string(s.Get(codegen.DeserializersFile))

	assertContains(t, function(t, src, "deserializeOpGetCity"), []string{
		`return nil, deserializeOpErrorGetCity(response)`,
		`output := &GetCityOutput{}`,
		`response.Header.Values("ETag")`,
		`output.Status = ptr.Int32(int32(response.StatusCode))`,
		`body, err := io.ReadAll(response.Body)`,
		`if len(body) != 0 {`,
		`codec.Deserialize(body, output)`,
		`Snapshot: body`,
	}, nil)

	// nothing is bound to the body of a Unit output
	assertContains(t, function(t, src, "deserializeOpPing"), []string{
		`output := &PingOutput{}`,
	}, []string{
		`io.ReadAll`,
	})

	// event streams leave the body for the stream reader
	assertContains(t, function(t, src, "deserializeOpWatch"), nil, []string{
		`io.ReadAll`,
		`response.Body`,
	})
}

func TestErrorDispatcher(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := string(s.Get(codegen.DeserializersFile))

	assertContains(t, function(t, src, "deserializeOpErrorGetCity"), []string{
		`code, message, parsedBody, err := restjson.GetErrorInfo(response, true)`,
		`case "NoSuchCity":`,
		`return deserializeErrorNoSuchCity(response, parsedBody)`,
		`return &smithyhttp.ResponseError{Response: response, Err: &smithy.GenericAPIError{Code: code, Message: message}}`,
	}, []string{
		`_ = parsedBody`,
	})

	assertContains(t, function(t, src, "deserializeOpErrorPing"), []string{
		`_ = parsedBody`,
	}, []string{
		`case `,
	})

	errorFn := function(t, src, "deserializeErrorNoSuchCity")
	assertContains(t, errorFn, []string{
		`func deserializeErrorNoSuchCity(response *smithyhttp.Response, parsedBody map[string]any) error {`,
		`response.Header.Values("X-Request-Id")`,
		`if parsedBody == nil {`,
		`body, err = restjson.EncodeParsedBody(parsedBody)`,
		`return output`,
	}, nil)
	if e, a := 1, strings.Count(src, "func deserializeErrorNoSuchCity("); e != a {
		t.Errorf("expected error deserializer emitted %v time, got %v", e, a)
	}
}

func TestEventStream(t *testing.T) {
	s, _ := generate(t, defaultSettings())
	src := string(s.Get(codegen.EventStreamFile))

	assertContains(t, function(t, src, "newEventStreamWatch"), []string{
		`(output *WatchOutput, request *smithyhttp.Request, response *smithyhttp.Response) (*eventstream.OutputEventStream[*WatchOutput, WeatherEvents], error)`,
		`eventstream.NewOutputEventStream[*WatchOutput, WeatherEvents](codec, output, response.Body, deserializeEventWatch)`,
	}, []string{
		`GetStream`,
	})

	assertContains(t, function(t, src, "deserializeEventWatch"), []string{
		`case "reading":`,
		`return &WeatherEventsMemberReading{Value: *v}, nil`,
		`return &UnknownUnionMember{Tag: eventType, Value: payload}, nil`,
	}, []string{
		`case "throttled":`,
	})

	if strings.Contains(src, "newEventStreamPing") {
		t.Errorf("expected no event stream for operations without streams")
	}
}

func TestProtocolTests(t *testing.T) {
	s, logger := generate(t, defaultSettings())
	src := string(s.Get("protocol_restjson1_test.go"))

	assertContains(t, src, []string{
		`func TestClient_PutForecast_RestJson1Serialize(t *testing.T) {`,
		`// Serializes the forecast document.`,
		`"PutForecastWithDocument": {`,
		`"/forecasts/Seattle",`,
		`ptr.String("Seattle")`,
		`{Key: "units", Value: "metric"},`,
		`ptr.Int32(31)`,
		`func TestClient_GetCity_RestJson1Deserialize(t *testing.T) {`,
		`"GetCityDocument": {`,
		`ptr.Int64(100)`,
		`ptr.Int32(200)`,
	}, []string{
		`PutForecastSkipped`,
		`PutForecastServerOnly`,
		`TestClient_Ping_`,
	})

	if !logger.contains("WARN skipping protocol test PutForecastSkipped") {
		t.Errorf("expected skipped fixture to be logged, got %v", logger.entries)
	}
}

func TestProtocolTestFilter(t *testing.T) {
	settings := defaultSettings()
	settings.TestFilter = "id != 'GetCityDocument'"
	s, _ := generate(t, settings)

	assertContains(t, string(s.Get("protocol_restjson1_test.go")), []string{
		`TestClient_PutForecast_RestJson1Serialize`,
	}, []string{
		`GetCityDocument`,
	})
}

func TestUnsupportedTraitWarning(t *testing.T) {
	b := smithy.NewModelBuilder()
	b.AddShape(id("TokenInput"), smithy.ShapeTypeStructure)
	b.AddMember(id("TokenInput"), "token", prelude("String"), &traits.IdempotencyToken{})
	b.AddOperation(id("Token"), id("TokenInput"), smithy.ShapeID{}, nil,
		&traits.HTTP{Method: "POST", URI: "/token", Code: 200})
	b.AddService(id("Weather"), "2024-01-01", []smithy.ShapeID{id("Token")}, &traits.RestJSON1{})
	m, err := b.Build()
	if err != nil {
		t.Fatalf("build model: %v", err)
	}

	logger := &recordingLogger{}
	gc, err := codegen.NewGenerationContext(m, defaultSettings(), New(), logger)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if err := codegen.Generate(context.Background(), gc, sink.NewMemorySink()); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if !logger.contains("member token: trait smithy.api#idempotencyToken is not supported") {
		t.Errorf("expected unsupported trait warning, got %v", logger.entries)
	}
}

func TestShouldWriteDefaultBody(t *testing.T) {
	m := weatherModel(t)
	h := &Hooks{}

	cases := map[string]bool{
		"PutForecast": true,
		"GetCity":     false,
		"Ping":        true,
		"Watch":       false,
	}
	for name, expect := range cases {
		op, ok := m.Operation(id(name))
		if !ok {
			t.Fatalf("operation %s missing", name)
		}
		if e, a := expect, h.ShouldWriteDefaultBody(op); e != a {
			t.Errorf("%s: expected %v, got %v", name, e, a)
		}
	}
}

func TestNewGenerationContextProtocolMismatch(t *testing.T) {
	settings := defaultSettings()
	settings.Protocol = "aws.protocols#awsJson1_0"

	if _, err := codegen.NewGenerationContext(weatherModel(t), settings, New(), nil); err == nil {
		t.Errorf("expect error, got none")
	}
}

func TestDefaultSkipList(t *testing.T) {
	skip := DefaultSkipList()
	for _, id := range []string{
		"RestJsonHttpChecksumRequired",
		"RestJsonEndpointTrait",
		"RestJsonClientPopulatesDefaultValuesInInput",
		"HttpPrefixEmptyHeaders",
	} {
		if !skip.Contains(id) {
			t.Errorf("expected %s to be skipped", id)
		}
	}
	if e, a := 19, len(skip.IDs()); e != a {
		t.Errorf("expected %v skipped tests, got %v", e, a)
	}
}
