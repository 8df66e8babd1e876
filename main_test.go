package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points the CLI at a plain HTTP mirror and keeps logs quiet
func writeConfig(t *testing.T, mirrorHost string) string {
	content := fmt.Sprintf(`
mirror:
  host: %s
  scheme: http
logging:
  level: error
presets:
  - name: sample
    token: 0.0.100
    treasuries: [0.0.2]
`, mirrorHost)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newMirror(t *testing.T) (*httptest.Server, *int32) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		switch r.URL.Path {
		case "/api/v1/tokens/0.0.100":
			fmt.Fprint(w, `{"token_id":"0.0.100","total_supply":"1000000","decimals":"2"}`)
		case "/api/v1/tokens/0.0.100/balances":
			fmt.Fprint(w, `{"balances":[{"account":"0.0.1","balance":400000},{"account":"0.0.2","balance":600000}],"links":{"next":null}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func hostOf(server *httptest.Server) string {
	return strings.TrimPrefix(server.URL, "http://")
}

func runCLI(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_UsageErrors(t *testing.T) {
	tests := [][]string{
		{},
		{"mirror.test"},
		{"-preset", "sample", "extra"},
		{"-serve", "mirror.test"},
		{"-format", "xml", "mirror.test", "0.0.100"},
	}

	for _, args := range tests {
		code, stdout, stderr := runCLI(args...)
		assert.Equal(t, 1, code, args)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "Usage:")
	}
}

func TestRun_CSV(t *testing.T) {
	server, _ := newMirror(t)
	configPath := writeConfig(t, hostOf(server))

	code, stdout, stderr := runCLI("-config", configPath, hostOf(server), "0.0.100", "0.0.2")
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(stdout, "\n")
	assert.Equal(t, "Token,0.0.100", lines[0])
	assert.Equal(t, "Decimals,2", lines[1])
	assert.Equal(t, "Source,"+hostOf(server), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Timestamp,"))
	assert.Equal(t, "Total Supply,1000000", lines[4])
	assert.Equal(t, "Circulating,400000", lines[5])
	assert.Contains(t, stdout, "\nTreasuries\n0.0.2,600000\n")
	assert.Contains(t, stdout, "\nConsumers\n0.0.1,400000\n")
}

func TestRun_PresetJSON(t *testing.T) {
	server, _ := newMirror(t)
	configPath := writeConfig(t, hostOf(server))

	code, stdout, stderr := runCLI("-config", configPath, "-format", "json", "-preset", "sample")
	require.Equal(t, 0, code, stderr)

	assert.Contains(t, stdout, `"circulating": "400000"`)
	assert.Contains(t, stdout, `"source": "`+hostOf(server)+`"`)
}

func TestRun_InvalidTokenMakesNoRequests(t *testing.T) {
	server, requests := newMirror(t)
	configPath := writeConfig(t, hostOf(server))

	code, stdout, stderr := runCLI("-config", configPath, hostOf(server), "not-a-token")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "invalid token")
	assert.Equal(t, int32(0), atomic.LoadInt32(requests))
}

func TestRun_TokenNotFound(t *testing.T) {
	server, _ := newMirror(t)
	configPath := writeConfig(t, hostOf(server))

	code, stdout, stderr := runCLI("-config", configPath, hostOf(server), "0.0.999")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "HTS token 0.0.999 was not found, code: 404")
}

func TestRun_UnknownPreset(t *testing.T) {
	server, _ := newMirror(t)
	configPath := writeConfig(t, hostOf(server))

	code, _, stderr := runCLI("-config", configPath, "-preset", "missing")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `Unknown preset "missing"`)
}
