package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "short", tp.TruncateText("short", 10))
	assert.Equal(t, "short", tp.TruncateText("short", 0))

	out := tp.TruncateText("héllo", 2) // cuts inside the é
	assert.True(t, strings.HasPrefix(out, "h\n"))
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "ok", tp.SanitizeUTF8("ok"))
}

func TestDecodeModelJSON(t *testing.T) {
	var v struct {
		Score float64 `json:"score"`
	}

	require.NoError(t, DecodeModelJSON(`{"score":0.4}`, &v))
	assert.InDelta(t, 0.4, v.Score, 1e-9)

	require.NoError(t, DecodeModelJSON("Sure! ```json\n{\"score\":0.8}\n```", &v))
	assert.InDelta(t, 0.8, v.Score, 1e-9)

	assert.ErrorIs(t, DecodeModelJSON("no idea", &v), ErrNoJSON)
	assert.Error(t, DecodeModelJSON("{not json}", &v))
}
