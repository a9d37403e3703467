package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want OutputFormat
	}{
		{"yaml", FormatYAML},
		{"YML", FormatYAML},
		{"json", FormatJSON},
		{"table", FormatTable},
		{"", FormatTable},
		{"xml", OutputFormat("xml")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseOutputFormat(tt.in))
		})
	}
	assert.False(t, ParseOutputFormat("xml").IsValid())
	assert.True(t, FormatYAML.IsValid())
}

func TestWriteData(t *testing.T) {
	data := map[string]any{"package_id": "hs6", "has_web": true}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteData(&buf, FormatYAML, data))
		assert.Equal(t, "has_web: true\npackage_id: hs6\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteData(&buf, FormatJSON, data))
		assert.JSONEq(t, `{"package_id":"hs6","has_web":true}`, buf.String())
	})

	t.Run("table rejected", func(t *testing.T) {
		assert.Error(t, WriteData(&bytes.Buffer{}, FormatTable, data))
	})
}
