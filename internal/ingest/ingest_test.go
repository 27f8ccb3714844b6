package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{"id": "urn:li:share:1", "text": "recyclable bottle launch #eco", "createdAt": "2024-01-10T00:00:00Z"}`

func TestRecords_InputShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"Bare array", `[` + sampleRecord + `]`, 1},
		{"Elements wrapper", `{"elements": [` + sampleRecord + `]}`, 1},
		{"Posts wrapper", `{"posts": [` + sampleRecord + `]}`, 1},
		{"Empty array", `[]`, 0},
		{"Unknown object", `{"items": [` + sampleRecord + `]}`, 0},
		{"Scalar", `42`, 0},
		{"Garbage", `{not json`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Records([]byte(tt.input)), tt.count)
		})
	}
}

func TestRecords_WrapperMatchesBareArray(t *testing.T) {
	bare := Records([]byte(`[` + sampleRecord + `]`))
	wrapped := Records([]byte(`{"elements": [` + sampleRecord + `]}`))

	assert.Equal(t, bare, wrapped)
}

func TestLoad_NormalizesRecords(t *testing.T) {
	posts, dropped := Load([]byte(`[` + sampleRecord + `]`))

	require.Len(t, posts, 1)
	assert.Zero(t, dropped)
	assert.Equal(t, "urn:li:share:1", posts[0].ID)
	assert.Equal(t, []string{"eco"}, posts[0].Hashtags)
	assert.False(t, posts[0].CreatedAt.IsZero())
}

func TestLoad_DropsUnsalvageableRecords(t *testing.T) {
	posts, dropped := Load([]byte(`[null, ` + sampleRecord + `]`))

	assert.Len(t, posts, 1)
	assert.Equal(t, 1, dropped)
}

func TestLoad_EmptyInput(t *testing.T) {
	posts, dropped := Load([]byte(`"not an export"`))

	assert.Empty(t, posts)
	assert.Zero(t, dropped)
}
