package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture points the global logger at a buffer for the duration of the test.
func capture(t *testing.T, lvl, fmtName string) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)

	mu.Lock()
	prevOut, prevFormat := out, format
	out, format = sink{w: buf}, fmtName
	rebuildLocked()
	mu.Unlock()

	prevLevel := level.Level()
	SetLevel(lvl)

	t.Cleanup(func() {
		mu.Lock()
		if out.closer != nil {
			_ = out.closer.Close()
		}
		out, format = prevOut, prevFormat
		rebuildLocked()
		mu.Unlock()
		level.Set(prevLevel)
	})
	return buf
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
		drop  []string
	}{
		{"DEBUG", []string{"d-line", "i-line", "w-line", "e-line"}, nil},
		{"info", []string{"i-line", "w-line", "e-line"}, []string{"d-line"}},
		{"WARN", []string{"w-line", "e-line"}, []string{"d-line", "i-line"}},
		{"error", []string{"e-line"}, []string{"d-line", "i-line", "w-line"}},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t, tt.level, "text")

			Debug("d-line")
			Info("i-line")
			Warn("w-line")
			Error("e-line")

			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.drop {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestSetLevelKeepsLevelOnUnknownValue(t *testing.T) {
	buf := capture(t, "WARN", "text")

	SetLevel("LOUD")
	Info("still filtered")

	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"Error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	t.Run("RejectsUnknownLevel", func(t *testing.T) {
		capture(t, "INFO", "text")
		assert.Error(t, Init(Config{Level: "verbose"}))
	})

	t.Run("RejectsUnknownFormat", func(t *testing.T) {
		capture(t, "INFO", "text")
		assert.Error(t, Init(Config{Format: "xml"}))
	})

	t.Run("WritesToFile", func(t *testing.T) {
		capture(t, "INFO", "text")
		path := filepath.Join(t.TempDir(), "dnas.log")

		require.NoError(t, Init(Config{Level: "debug", Format: "json", Output: path}))
		Debug("written to file", KeyVolume, "tank")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
		assert.Equal(t, "written to file", entry["msg"])
		assert.Equal(t, "tank", entry[KeyVolume])
	})

	t.Run("BadPathLeavesOutputAlone", func(t *testing.T) {
		buf := capture(t, "INFO", "text")

		err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dnas.log")})
		require.Error(t, err)

		Info("still buffered")
		assert.Contains(t, buf.String(), "still buffered")
	})
}

func TestTextLine(t *testing.T) {
	buf := capture(t, "INFO", "text")

	Info("volume projected", KeyVolume, "tank", Nodes(4))

	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3} INFO  volume projected volume=tank nodes=4\n$`)
	assert.Regexp(t, line, buf.String())
}

func TestTextQuoting(t *testing.T) {
	buf := capture(t, "INFO", "text")

	Info("share", KeyPath, "/mnt/tank/my media", "comment", "", KeyError, errors.New(`bad "name"`))

	out := buf.String()
	assert.Contains(t, out, `path="/mnt/tank/my media"`)
	assert.Contains(t, out, `comment=""`)
	assert.Contains(t, out, `error="bad \"name\""`)
}

func TestTextGroups(t *testing.T) {
	buf := new(bytes.Buffer)
	l := slog.New(newTextHandler(buf, nil, false))

	l.WithGroup("tree").With(KeyVolume, "tank").Info("projected", KeyNodes, 4, slog.Group("ids", "first", 100))

	out := buf.String()
	assert.Contains(t, out, "tree.volume=tank tree.nodes=4 tree.ids.first=100")
}

func TestTextColor(t *testing.T) {
	buf := new(bytes.Buffer)
	slog.New(newTextHandler(buf, nil, true)).Warn("colored", KeyVolume, "tank")

	out := buf.String()
	assert.Contains(t, out, ansiYellow+"WARN "+ansiReset)
	assert.Contains(t, out, ansiDim+"volume="+ansiReset+"tank")
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t, "INFO", "json")

	Info("json line", Resource("disks"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "json line", entry["msg"])
	assert.Equal(t, "disks", entry[KeyResource])
}

func TestSetFormatSwitchesHandler(t *testing.T) {
	buf := capture(t, "INFO", "text")

	SetFormat("JSON")
	Info("as json")
	SetFormat("yaml")
	Info("still json")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, json.Valid([]byte(line)), line)
	}
}

func TestContextFieldsFollowAnnotations(t *testing.T) {
	buf := capture(t, "INFO", "text")

	lc := NewLogContext("req-1", "10.0.0.7")
	ctx := WithContext(context.Background(), lc)

	InfoCtx(ctx, "before auth")

	// Downstream code annotates through the context it was handed.
	FromContext(ctx).SetUser("admin")
	FromContext(ctx).SetResource("volumes")
	FromContext(ctx).SetVolume("tank")
	InfoCtx(ctx, "after handler", KeyStatus, 200)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "request_id=req-1 client_ip=10.0.0.7")
	assert.NotContains(t, lines[0], KeyUsername)
	assert.NotContains(t, lines[0], KeyVolume)
	assert.Contains(t, lines[1], "request_id=req-1 client_ip=10.0.0.7 username=admin resource=volumes volume=tank status=200")
}

func TestContextFieldsInJSON(t *testing.T) {
	buf := capture(t, "INFO", "json")

	lc := NewLogContext("req-2", "")
	lc.SetTrace("4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7")
	lc.SetVolume("backup")
	WarnCtx(WithContext(context.Background(), lc), "overflow")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry[KeyTraceID])
	assert.Equal(t, "00f067aa0ba902b7", entry[KeySpanID])
	assert.Equal(t, "backup", entry[KeyVolume])
	assert.NotContains(t, entry, KeyClientIP)
	assert.NotContains(t, entry, KeyResource)
}

func TestContextWithoutLogContext(t *testing.T) {
	buf := capture(t, "INFO", "text")

	InfoCtx(context.Background(), "bare")

	assert.Contains(t, buf.String(), "bare")
	assert.NotContains(t, buf.String(), KeyRequestID)
}

func TestNilLogContext(t *testing.T) {
	lc := FromContext(context.Background())
	require.Nil(t, lc)

	assert.NotPanics(t, func() {
		lc.SetTrace("t", "s")
		lc.SetUser("admin")
		lc.SetResource("disks")
		lc.SetVolume("tank")
	})
	assert.Nil(t, lc.Fields())
}

func TestErrAttr(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Err(nil))
	assert.Equal(t, KeyError, Err(assert.AnError).Key)
}

func TestConcurrentAnnotateAndLog(t *testing.T) {
	buf := capture(t, "INFO", "text")
	ctx := WithContext(context.Background(), NewLogContext("req-3", "127.0.0.1"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				FromContext(ctx).SetVolume("tank")
				InfoCtx(ctx, "concurrent")
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, strings.Count(buf.String(), "concurrent"))
}

func TestEnabledFollowsLevel(t *testing.T) {
	capture(t, "WARN", "text")
	assert.False(t, Enabled(slog.LevelDebug))
	assert.False(t, Enabled(slog.LevelInfo))
	assert.True(t, Enabled(slog.LevelWarn))

	SetLevel("DEBUG")
	assert.True(t, Enabled(slog.LevelDebug))
}
