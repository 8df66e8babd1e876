package e2etest

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// getJSON fetches path from the API and decodes the JSON body
func getJSON(t *testing.T, env *TestEnv, path string) (int, map[string]any) {
	t.Helper()

	resp, err := http.Get(env.ServerBaseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded), "body: %s", body)
	return resp.StatusCode, decoded
}
