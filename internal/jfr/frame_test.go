package jfr

import (
	"math"
	"testing"

	"github.com/grafana/jfr-parser/parser/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameValueLineNumber(t *testing.T) {
	tests := []struct {
		name   string
		stored uint32
		want   int32
	}{
		{"regular line", 42, 42},
		{"no line information", math.MaxUint32, -1},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frameValue{f: &types.StackFrame{LineNumber: tt.stored}}
			line, err := Int32(f, "lineNumber")
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
		})
	}
}

func TestFrameValueHasNoBytecodeIndex(t *testing.T) {
	f := frameValue{f: &types.StackFrame{LineNumber: 7}}
	_, ok := f.Field("bytecodeIndex")
	assert.False(t, ok)
}
