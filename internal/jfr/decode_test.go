package jfr_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/jfr/jfrtest"
)

func TestDecodeExecutionSampleRootFirst(t *testing.T) {
	ev := jfrtest.Sample(42, jfrtest.Thread(7, "main"), jfrtest.Path("com/example/App.main", "com/example/App.run", "com/example/Worker.work")...)

	s, err := jfr.DecodeExecutionSample(ev)
	require.NoError(t, err)

	assert.Equal(t, int64(42), s.StartTime)
	assert.False(t, s.Native)
	assert.False(t, s.StackTrace.Truncated)
	require.Len(t, s.StackTrace.Frames, 3)
	assert.Equal(t, "main", s.StackTrace.Frames[0].Method.Name)
	assert.Equal(t, "work", s.StackTrace.Frames[2].Method.Name)
	assert.Equal(t, "com/example/Worker", s.StackTrace.Frames[2].Method.Class.Name)
	assert.Equal(t, "com.example.Worker:work", s.StackTrace.Frames[2].Method.String())

	require.NotNil(t, s.Thread)
	assert.Equal(t, int64(7), s.Thread.JavaThreadID)
	assert.Equal(t, "main", s.Thread.DisplayName())
}

func TestDecodeThreadNameFallback(t *testing.T) {
	s, err := jfr.DecodeExecutionSample(jfrtest.Sample(1, jfrtest.Thread(19, ""), jfrtest.Path("A.a")...))
	require.NoError(t, err)
	require.NotNil(t, s.Thread)
	assert.False(t, s.Thread.HasName)
	assert.Equal(t, "19", s.Thread.DisplayName())
}

func TestDecodeWithoutThread(t *testing.T) {
	s, err := jfr.DecodeExecutionSample(jfrtest.Sample(1, nil, jfrtest.Path("A.a")...))
	require.NoError(t, err)
	assert.Nil(t, s.Thread)
}

func TestDecodeNativeFlag(t *testing.T) {
	s, err := jfr.DefaultSampleTypes.Decode(jfrtest.NativeSample(5, nil, jfrtest.Path("A.a")...))
	require.NoError(t, err)
	assert.True(t, s.Native)

	// the wall-clock selection does not treat its own sample class as native
	s, err = jfr.WallClockSampleTypes.Decode(jfrtest.WallSample(5, nil, jfrtest.Path("A.a")...))
	require.NoError(t, err)
	assert.False(t, s.Native)
}

func TestDecodeTruncated(t *testing.T) {
	s, err := jfr.DecodeExecutionSample(jfrtest.TruncatedSample(1, nil, jfrtest.Path("A.a", "B.b")...))
	require.NoError(t, err)
	assert.True(t, s.StackTrace.Truncated)
	assert.Len(t, s.StackTrace.Frames, 2)
}

func TestDecodeNullStackAndMethod(t *testing.T) {
	ev := jfr.Event{Class: jfr.ExecutionSampleType, Accessor: jfr.Record{
		"startTime":     int64(3),
		"sampledThread": nil,
		"stackTrace":    nil,
	}}
	s, err := jfr.DecodeExecutionSample(ev)
	require.NoError(t, err)
	assert.Empty(t, s.StackTrace.Frames)

	frame := jfr.Record{"bytecodeIndex": int32(1), "lineNumber": int32(2), "method": nil}
	ev = jfr.Event{Class: jfr.ExecutionSampleType, Accessor: jfr.Record{
		"startTime":     int64(3),
		"sampledThread": nil,
		"stackTrace":    jfr.Record{"truncated": false, "frames": []jfr.Record{frame}},
	}}
	s, err = jfr.DecodeExecutionSample(ev)
	require.NoError(t, err)
	require.Len(t, s.StackTrace.Frames, 1)
	assert.Equal(t, "<unknown>", s.StackTrace.Frames[0].Method.String())
	assert.Equal(t, int32(1), s.StackTrace.Frames[0].BytecodeIndex)
}

func TestDecodeFrameWithoutBytecodeIndex(t *testing.T) {
	ev := jfrtest.Sample(1, nil, jfrtest.Line(jfrtest.Frame("com/example/App", "run"), 12))

	s, err := jfr.DecodeExecutionSample(ev)
	require.NoError(t, err)
	require.Len(t, s.StackTrace.Frames, 1)
	assert.Equal(t, int32(0), s.StackTrace.Frames[0].BytecodeIndex)
	assert.Equal(t, int32(12), s.StackTrace.Frames[0].LineNumber)
	assert.Equal(t, "com.example.App:run", s.StackTrace.Frames[0].Method.String())
}

func TestDecodeFrameWithoutLineNumber(t *testing.T) {
	ev := jfrtest.Sample(1, nil,
		jfrtest.Line(jfrtest.Frame("java/lang/Thread", "run"), -1),
		jfrtest.Line(jfrtest.Frame("com/example/App", "run"), 40))

	s, err := jfr.DecodeExecutionSample(ev)
	require.NoError(t, err)
	require.Len(t, s.StackTrace.Frames, 2)
	assert.Equal(t, int32(-1), s.StackTrace.Frames[0].LineNumber)
	assert.Equal(t, int32(40), s.StackTrace.Frames[1].LineNumber)
}

func TestDecodeMallocUsesEventThread(t *testing.T) {
	ev := jfrtest.Event(jfr.MallocType, 9, jfr.Record{
		"eventThread": jfrtest.Thread(5, "worker"),
		"size":        uint64(64),
		"stackTrace": jfr.Record{"truncated": false, "frames": []jfr.Record{
			jfrtest.Frame("libc", "malloc"),
		}},
	})
	require.True(t, jfr.MallocSampleTypes.Match(ev.Class))
	assert.False(t, jfr.MallocSampleTypes.Match(jfr.ExecutionSampleType))

	s, err := jfr.MallocSampleTypes.Decode(ev)
	require.NoError(t, err)
	require.NotNil(t, s.Thread)
	assert.Equal(t, int64(5), s.Thread.JavaThreadID)
	assert.False(t, s.Native)
	assert.Len(t, s.StackTrace.Frames, 1)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		record  jfr.Record
		missing string
		badType string
	}{
		{
			name:    "missing start time",
			record:  jfr.Record{"sampledThread": nil, "stackTrace": nil},
			missing: "startTime",
		},
		{
			name:    "start time is a string",
			record:  jfr.Record{"startTime": "soon", "sampledThread": nil, "stackTrace": nil},
			badType: "startTime",
		},
		{
			name:    "missing stack trace",
			record:  jfr.Record{"startTime": int64(1), "sampledThread": nil},
			missing: "stackTrace",
		},
		{
			name: "thread without id",
			record: jfr.Record{
				"startTime":     int64(1),
				"sampledThread": jfr.Record{"javaName": "main"},
				"stackTrace":    nil,
			},
			missing: "javaThreadId",
		},
		{
			name: "frames is not an array",
			record: jfr.Record{
				"startTime":     int64(1),
				"sampledThread": nil,
				"stackTrace":    jfr.Record{"truncated": false, "frames": int64(3)},
			},
			badType: "frames",
		},
		{
			name: "line number out of range",
			record: jfr.Record{
				"startTime":     int64(1),
				"sampledThread": nil,
				"stackTrace": jfr.Record{"truncated": false, "frames": []jfr.Record{
					{"bytecodeIndex": int32(0), "lineNumber": int64(1) << 40, "method": nil},
				}},
			},
			badType: "lineNumber",
		},
		{
			name: "bytecode index is a string",
			record: jfr.Record{
				"startTime":     int64(1),
				"sampledThread": nil,
				"stackTrace": jfr.Record{"truncated": false, "frames": []jfr.Record{
					{"bytecodeIndex": "7", "lineNumber": int32(1), "method": nil},
				}},
			},
			badType: "bytecodeIndex",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jfr.DecodeExecutionSample(jfr.Event{Class: jfr.ExecutionSampleType, Accessor: tt.record})
			require.Error(t, err)
			if tt.missing != "" {
				var fm *jfr.FieldMissingError
				require.True(t, errors.As(err, &fm), "want FieldMissingError, got %v", err)
				assert.Equal(t, tt.missing, fm.Field)
			}
			if tt.badType != "" {
				var tm *jfr.TypeMismatchError
				require.True(t, errors.As(err, &tm), "want TypeMismatchError, got %v", err)
				assert.Equal(t, tt.badType, tm.Field)
			}
		})
	}
}

func TestSampleTypesMatch(t *testing.T) {
	assert.True(t, jfr.DefaultSampleTypes.Match(jfr.ExecutionSampleType))
	assert.True(t, jfr.DefaultSampleTypes.Match(jfr.NativeMethodSampleType))
	assert.False(t, jfr.DefaultSampleTypes.Match(jfr.WallClockSampleType))
	assert.False(t, jfr.DefaultSampleTypes.Match(jfr.ActiveSettingType))
	assert.True(t, jfr.WallClockSampleTypes.Match(jfr.WallClockSampleType))
}
