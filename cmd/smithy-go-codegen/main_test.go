package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, extra string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "smithy-go-codegen.yaml")
	doc := "service: example.weather#Weather\npackage: weather\nprotocol: aws.protocols#restJson1\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestGenerateCmd(t *testing.T) {
	out := t.TempDir()
	cmd := &GenerateCmd{
		Model:    filepath.Join("..", "..", "model", "testdata", "weather.json"),
		Settings: writeSettings(t, ""),
		Out:      out,
	}
	require.NoError(t, cmd.Run())

	for _, name := range []string{"serializers.go", "deserializers.go", "protocol_restjson1_test.go"} {
		content, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		require.True(t, strings.HasPrefix(string(content), "// Code generated by smithy-go-codegen DO NOT EDIT."), name)
	}

	serializers, err := os.ReadFile(filepath.Join(out, "serializers.go"))
	require.NoError(t, err)
	require.Contains(t, string(serializers), `encoder.AddHeader("X-Tags").String(httpbinding.QuoteHeaderListValue(v))`)
	require.Contains(t, string(serializers), `encoder.SetHeader("Content-Type").String("text/csv")`)

	deserializers, err := os.ReadFile(filepath.Join(out, "deserializers.go"))
	require.NoError(t, err)
	require.Contains(t, string(deserializers), `smithytime.ParseString(v, smithytime.HTTPDate)`)

	_, err = os.Stat(filepath.Join(out, "eventstream.go"))
	require.True(t, os.IsNotExist(err), "no event stream operations")
}

func TestGenerateCmdDryRun(t *testing.T) {
	out := t.TempDir()
	cmd := &GenerateCmd{
		Model:    filepath.Join("..", "..", "model", "testdata", "weather.json"),
		Settings: writeSettings(t, ""),
		Out:      out,
		DryRun:   true,
	}
	require.NoError(t, cmd.Run())

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestGenerateCmdUnknownProtocol(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smithy-go-codegen.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("service: example.weather#Weather\npackage: weather\nprotocol: aws.protocols#awsJson1_0\n"), 0o644))

	cmd := &GenerateCmd{
		Model:    filepath.Join("..", "..", "model", "testdata", "weather.json"),
		Settings: path,
		Out:      t.TempDir(),
	}
	require.ErrorContains(t, cmd.Run(), "no generator for protocol")
}

func TestSkippedCmd(t *testing.T) {
	cmd := &SkippedCmd{Protocol: "aws.protocols#restJson1", Settings: writeSettings(t, "skipTests: [ExtraCase]\n")}
	require.NoError(t, cmd.Run())

	require.Error(t, (&SkippedCmd{Protocol: "aws.protocols#awsQuery"}).Run())
}

const tallyModel = `{
    "smithy": "2.0",
    "shapes": {
        "example.weather#Weather": {
            "type": "service",
            "version": "2024-01-01",
            "operations": [{"target": "example.weather#Tally"}],
            "traits": {"aws.protocols#restJson1": {}}
        },
        "example.weather#Tally": {
            "type": "operation",
            "input": {"target": "example.weather#TallyInput"},
            "traits": {
                "smithy.api#http": {"method": "POST", "uri": "/tally", "code": 200},
                "smithy.test#httpRequestTests": [
                    {
                        "id": "TallyBigTotal",
                        "protocol": "aws.protocols#restJson1",
                        "method": "POST",
                        "uri": "/tally",
                        "params": {"total": 1}
                    }
                ]
            }
        },
        "example.weather#TallyInput": {
            "type": "structure",
            "members": {
                "total": {"target": "smithy.api#BigInteger"}
            }
        }
    }
}`

func TestSkippedCmdList(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "tally.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(tallyModel), 0o644))

	cmd := &SkippedCmd{
		Protocol: "aws.protocols#restJson1",
		Settings: writeSettings(t, "skipTests: [ExtraCase]\n"),
		Model:    modelPath,
	}
	tests, err := cmd.list()
	require.NoError(t, err)
	require.Contains(t, tests, skippedTest{ID: "ExtraCase", Reason: reasonSkipped})
	require.Contains(t, tests, skippedTest{ID: "RestJsonEndpointTrait", Reason: reasonSkipped})
	require.Equal(t, skippedTest{ID: "TallyBigTotal", Reason: reasonUnsupported}, tests[len(tests)-1])

	cmd.Settings = writeSettings(t, "skipTests: [TallyBigTotal]\n")
	tests, err = cmd.list()
	require.NoError(t, err)
	require.NotContains(t, tests, skippedTest{ID: "TallyBigTotal", Reason: reasonUnsupported})
	require.Contains(t, tests, skippedTest{ID: "TallyBigTotal", Reason: reasonSkipped})

	_, err = (&SkippedCmd{Protocol: "aws.protocols#restJson1", Model: modelPath}).list()
	require.ErrorContains(t, err, "--model requires --settings")
}

func TestGenerateCmdUnsupportedFixture(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "tally.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(tallyModel), 0o644))

	cmd := &GenerateCmd{Model: modelPath, Settings: writeSettings(t, ""), Out: t.TempDir()}
	require.ErrorContains(t, cmd.Run(), "TallyBigTotal")

	cmd.Settings = writeSettings(t, "skipTests: [TallyBigTotal]\n")
	require.NoError(t, cmd.Run())
}
