package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRequest_CarriesIDs(t *testing.T) {
	var buf bytes.Buffer
	configure(&buf, "debug", "shop")

	l := ForRequest("ab12cd34", "trace-1")
	ctx := NewContext(context.Background(), &l)
	WithContext(ctx).Info().Str("order_id", "o1").Msg("Order: placed")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shop", line["service"])
	assert.Equal(t, "ab12cd34", line["request_id"])
	assert.Equal(t, "trace-1", line["trace_id"])
	assert.Equal(t, "o1", line["order_id"])
}

func TestConfigure_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	configure(&buf, "nonsense", "")

	Get().Debug().Msg("hidden")
	assert.Zero(t, buf.Len(), "unknown levels fall back to info")

	WithContext(context.Background()).Info().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "trace_id")
}
