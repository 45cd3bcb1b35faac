package logger

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T, v bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(v)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func(string, ...any)
		want string
	}{
		{"debug", Debug, "[DEBUG] batch 2 of 3\n"},
		{"info", Info, "[INFO] batch 2 of 3\n"},
		{"warn", Warn, "[WARN] batch 2 of 3\n"},
		{"error", Error, "[ERROR] batch 2 of 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log("batch %d of %d", 2, 3)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLevels_WhenQuiet(t *testing.T) {
	buf := capture(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_AlwaysPrinted(t *testing.T) {
	buf := capture(t, false)

	Error("store %s unreachable", "sqlite")

	assert.Equal(t, "[ERROR] store sqlite unreachable\n", buf.String())
}

func TestSection(t *testing.T) {
	buf := capture(t, true)

	Section("Search")

	assert.Equal(t, "\n=== Search ===\n", buf.String())
}

func TestTimed(t *testing.T) {
	buf := capture(t, true)

	done := Timed("embed query")
	done()

	assert.True(t, strings.HasPrefix(buf.String(), "[DEBUG] embed query took "))
}

func TestConcurrentAccess(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			SetVerbose(i%2 == 0)
			Debug("concurrent %d", i)
			Error("concurrent %d", i)
			IsVerbose()
		}(i)
	}
	wg.Wait()
}
