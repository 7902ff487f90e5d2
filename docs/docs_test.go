package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRenders(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))

	info, ok := parsed["info"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Canteen Backend API", info["title"])

	paths, ok := parsed["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/auth/login")
	assert.Contains(t, paths, "/public/menu/{token}")
	assert.Contains(t, paths, "/public/orders")
	assert.Contains(t, paths, "/orders/{id}/pay")
}
