package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(strings.NewReader(`
service: com.example#Weather
package: weather
protocol: aws.protocols#restJson1
skipTests:
  - RestJsonFlaky
testFilter: "!contains(tags || ` + "`[]`" + `, 'slow')"
parallelism: 4
`))
	require.NoError(t, err)
	require.Equal(t, "com.example#Weather", s.Service)
	require.Equal(t, "weather", s.Package)
	require.Equal(t, []string{"RestJsonFlaky"}, s.SkipTests)
	require.Equal(t, 4, s.Parallelism)
}

func TestLoadSettingsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing service":  "package: weather\nprotocol: aws.protocols#restJson1\n",
		"relative service": "service: Weather\npackage: weather\nprotocol: aws.protocols#restJson1\n",
		"bad package":      "service: com.example#Weather\npackage: Weather-API\nprotocol: aws.protocols#restJson1\n",
		"unknown key":      "service: com.example#Weather\npackage: weather\nprotocol: aws.protocols#restJson1\nout: gen\n",
		"negative limit":   "service: com.example#Weather\npackage: weather\nprotocol: aws.protocols#restJson1\nparallelism: -1\n",
		"empty skip id":    "service: com.example#Weather\npackage: weather\nprotocol: aws.protocols#restJson1\nskipTests: ['']\n",
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSettings(strings.NewReader(doc))
			require.Error(t, err)
		})
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smithy-go-codegen.yaml")
	require.NoError(t, os.WriteFile(path,
		[]byte("service: com.example#Weather\npackage: weather\nprotocol: aws.protocols#restJson1\n"), 0o644))

	s, err := LoadSettingsFile(path)
	require.NoError(t, err)
	require.Zero(t, s.Parallelism)

	_, err = LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
