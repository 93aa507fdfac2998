package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		s    string
		want LogLevel
	}{
		{s: "NONE", want: NONE},
		{s: "ERROR", want: ERROR},
		{s: "WARNING", want: WARNING},
		{s: "INFO", want: INFO},
		{s: "DEBUG", want: DEBUG},
		{s: "TRACE", want: TRACE},
		{s: "bogus", want: INFO},
		{s: "", want: INFO},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, LevelFromString(tt.s), "level %q", tt.s)
	}
}

func TestCreate_SameNameSameLogger(t *testing.T) {
	first := Create("test")
	second := Create("test")
	require.Same(t, first, second)
}
