package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"truncated", "hello world", 5, "hello..."},
		{"no limit", "hello", 0, "hello"},
		{"multibyte runes", "héllo wörld", 5, "héllo..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.in, tt.max))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "BRK.B", SanitizeFilename("BRK.B"))
	assert.Equal(t, "a-b_c-d", SanitizeFilename("a/b c:d"))
}

func TestFileTimestamp(t *testing.T) {
	at := time.Date(2026, 8, 26, 9, 5, 7, 0, time.UTC)
	assert.Equal(t, "20260826_090507", FileTimestamp(at))
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}

func TestGoSafeRecoversPanic(t *testing.T) {
	ran := make(chan struct{})
	GoSafe(func() {
		defer close(ran)
		panic("boom")
	})

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("GoSafe never ran the function")
	}
}

func TestToPointer(t *testing.T) {
	v := ToPointer(42)
	assert.Equal(t, 42, *v)
}
