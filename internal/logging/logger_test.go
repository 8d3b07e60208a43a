package logging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.err {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(DefaultConfig())
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New(Config{Level: "nope"})
	assert.Error(t, err)
}

func TestNewDevelopment(t *testing.T) {
	assert.True(t, NewDevelopment().Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, NewDefault().Logger)
}

func TestNop(t *testing.T) {
	l := NewNop()
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
	l.Info("discarded", Formula("1+1"))
}

func TestFormula(t *testing.T) {
	f := Formula("(1+2)*3")
	assert.Equal(t, "formula", f.Key)
	assert.Equal(t, "(1+2)*3", f.String)
}

func TestEncoderConfig(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	ent := zapcore.Entry{Level: zapcore.WarnLevel, Time: when, Message: "slow formula"}
	fields := []zapcore.Field{Formula("1/3"), zap.Duration("took", 1500*time.Millisecond)}

	buf, err := zapcore.NewJSONEncoder(encoderConfig(false)).EncodeEntry(ent, fields)
	require.NoError(t, err)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "line: %s", buf.String())
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "slow formula", line["msg"])
	assert.Equal(t, "1/3", line["formula"])
	assert.EqualValues(t, 1500, line["took"])
	assert.True(t, strings.HasPrefix(line["ts"].(string), "2024-03-01T12:30:00"), "ts: %v", line["ts"])

	buf, err = zapcore.NewConsoleEncoder(encoderConfig(true)).EncodeEntry(ent, fields)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "slow formula")
	assert.Contains(t, out, `"formula": "1/3"`)
}
