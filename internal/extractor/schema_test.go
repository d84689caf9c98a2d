package extractor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdge_JSONAlwaysCarriesLineNumber(t *testing.T) {
	e := localEdge("file.a.go", "function.a.go:f", EdgeDefines, 0)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"line_number":0`)

	var back Edge
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e, back)
}
