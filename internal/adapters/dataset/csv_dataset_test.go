package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleCSV = `sender_email,subject,body,tags,difficulty,is_phishing,theme
security@paypa1.com,Verify now,"Dear user, verify immediately","urgency_tactic, suspicious_link,,",hard,1,Finance
friend@example.com,Lunch?,See you at noon,,easy,0,
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "General")
	require.NoError(t, err)
	require.Equal(t, 2, ds.Size())

	first, ok := ds.Get(0)
	require.True(t, ok)
	assert.Equal(t, "0", first.ID)
	assert.Equal(t, "security@paypa1.com", first.Sender)
	assert.Equal(t, "Verify now", first.Subject)
	assert.Equal(t, "Dear user, verify immediately", first.Body)
	assert.Equal(t, []string{"urgency_tactic", "suspicious_link"}, first.Cues)
	assert.Equal(t, "hard", first.Difficulty)
	assert.True(t, first.IsPhishing)
	assert.Equal(t, "Finance", first.Theme)

	second, ok := ds.Get(1)
	require.True(t, ok)
	assert.Empty(t, second.Cues)
	assert.False(t, second.IsPhishing)
	assert.Equal(t, "General", second.Theme)

	_, ok = ds.Get(2)
	assert.False(t, ok)
	_, ok = ds.Get(-1)
	assert.False(t, ok)
}

func TestParse_OptionalColumnsAbsent(t *testing.T) {
	ds, err := Parse(strings.NewReader("body,sender_email,is_phishing,difficulty\nhi,a@b.c,false,easy\n"), "General")
	require.NoError(t, err)

	rec, ok := ds.Get(0)
	require.True(t, ok)
	assert.Equal(t, "", rec.Subject)
	assert.Equal(t, "a@b.c", rec.Sender)
}

func TestParse_MissingRequiredColumn(t *testing.T) {
	_, err := Parse(strings.NewReader("sender_email,body,difficulty\na,b,c\n"), "General")
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "is_phishing")
}

func TestParse_BadBoolean(t *testing.T) {
	_, err := Parse(strings.NewReader("sender_email,body,difficulty,is_phishing\na,b,c,maybe\n"), "General")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParse_RaggedRow(t *testing.T) {
	_, err := Parse(strings.NewReader("sender_email,body,difficulty,is_phishing\na,b,c\n"), "General")
	assert.Error(t, err)
}

func TestGet_ReturnsCopy(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV), "General")
	require.NoError(t, err)

	rec, _ := ds.Get(0)
	rec.Cues[0] = "tampered"

	again, _ := ds.Get(0)
	assert.Equal(t, "urgency_tactic", again.Cues[0])
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emails.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	ds, err := LoadCSV(path, "General", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Size())

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), "General", zap.NewNop())
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"1", "TRUE", "yes", "1.0"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"0", "False", "no", "0.0"} {
		v, err := ParseBool(in)
		require.NoError(t, err, in)
		assert.False(t, v, in)
	}
	for _, in := range []string{"NaN", "Inf", "-Inf", "1e3", "0.5", "2", "-1", "maybe", ""} {
		_, err := ParseBool(in)
		assert.Error(t, err, in)
	}
}

func TestSplitCues(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitCues(" a ; b| c,, "))
	assert.Empty(t, SplitCues(""))
}
