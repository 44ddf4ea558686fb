package handid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := New()
	assert.Len(t, id, 26)
	assert.NoError(t, Validate(id))
}

func TestNewUnique(t *testing.T) {
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := New()
		require.False(t, ids[id], "duplicate ID %s", id)
		ids[id] = true
	}
}

func TestNewTimeSorted(t *testing.T) {
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, New())
		time.Sleep(2 * time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s should sort before %s", ids[i-1], ids[i])
	}
}

func TestGeneratorUsesReader(t *testing.T) {
	g := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xff}, 64)))
	id, err := g.Generate()
	require.NoError(t, err)
	require.NoError(t, Validate(id))
	assert.True(t, strings.HasSuffix(id, "zzzz"), id)

	_, err = NewGenerator(bytes.NewReader(nil)).Generate()
	assert.Error(t, err)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, strings.Repeat("0", 26), Encode(uuid.UUID{}))

	var max uuid.UUID
	for i := range max {
		max[i] = 0xff
	}
	assert.Equal(t, "7"+strings.Repeat("z", 25), Encode(max))

	var one uuid.UUID
	one[15] = 1
	assert.Equal(t, strings.Repeat("0", 25)+"1", Encode(one))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "01h5n0et5q6mt3v7ms1234abcd", false},
		{"too short", "01h5n0et5q6mt3v7ms123", true},
		{"too long", "01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "81h5n0et5q6mt3v7ms1234abcd", true},
		{"invalid character", "01h5n0et5q6mt3v7ms1234abcu", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
