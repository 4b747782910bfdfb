package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskAttr_DirectKey(t *testing.T) {
	keys := buildMaskKeys([]string{"code", " Password ", ""})

	assert.Contains(t, keys, "code")
	assert.Contains(t, keys, "password")
	assert.Len(t, keys, 2)
}

func TestMaskJSON(t *testing.T) {
	keys := buildMaskKeys([]string{"code"})

	masked, ok := maskJSON([]byte(`{"receiver":"79024327692","code":"914023"}`), keys)
	assert.True(t, ok)
	assert.Contains(t, masked, `"code":"***"`)
	assert.Contains(t, masked, `"receiver":"79024327692"`)

	_, ok = maskJSON([]byte("plain text"), keys)
	assert.False(t, ok)

	_, ok = maskJSON(nil, keys)
	assert.False(t, ok)
}

func TestMaskData_Nested(t *testing.T) {
	keys := buildMaskKeys([]string{"code"})

	in := map[string]any{
		"outer": map[string]any{"code": "914023", "kept": "x"},
		"list":  []any{map[string]any{"Code": "111111"}},
	}

	out, ok := maskData(in, keys).(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "***", out["outer"].(map[string]any)["code"])
	assert.Equal(t, "x", out["outer"].(map[string]any)["kept"])
	assert.Equal(t, "***", out["list"].([]any)[0].(map[string]any)["Code"])
}
