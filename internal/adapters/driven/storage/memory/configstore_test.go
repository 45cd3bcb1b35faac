package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_Seed(t *testing.T) {
	seed := map[string]any{"embedding.provider": "ollama"}
	s := NewConfigStore(seed)
	seed["embedding.provider"] = "openai"

	assert.Equal(t, "ollama", s.GetString("embedding.provider"))
	assert.Equal(t, ":memory:", s.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStore(map[string]any{
		"int":         20,
		"int64":       int64(7),
		"whole_float": 3.0,
		"frac_float":  0.75,
		"num_string":  "12",
		"str":         "hello",
		"bool":        true,
		"strings":     []string{"a", "b"},
		"anys":        []any{"x", 1, "y"},
	})

	tests := []struct {
		key    string
		str    string
		i      int
		f      float64
		b      bool
		slices []string
	}{
		{key: "int", i: 20, f: 20},
		{key: "int64", i: 7, f: 7},
		{key: "whole_float", i: 3, f: 3},
		{key: "frac_float", i: 0, f: 0.75},
		{key: "num_string", str: "12", i: 12, f: 12},
		{key: "str", str: "hello"},
		{key: "bool", b: true},
		{key: "strings", slices: []string{"a", "b"}},
		{key: "anys", slices: []string{"x", "y"}},
		{key: "missing"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.str, s.GetString(tt.key))
			assert.Equal(t, tt.i, s.GetInt(tt.key))
			assert.InDelta(t, tt.f, s.GetFloat(tt.key), 1e-9)
			assert.Equal(t, tt.b, s.GetBool(tt.key))
			assert.Equal(t, tt.slices, s.GetStringSlice(tt.key))
		})
	}
}

func TestConfigStore_SetDeleteKeys(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("search.threshold", 0.6))
	require.NoError(t, s.Set("llm.model", "llama3.2"))
	require.NoError(t, s.Set("llm.model", "mistral"))

	assert.Equal(t, []string{"llm.model", "search.threshold"}, s.Keys())
	assert.Equal(t, "mistral", s.GetString("llm.model"))

	require.NoError(t, s.Delete("llm.model"))
	_, ok := s.Get("llm.model")
	assert.False(t, ok)
	require.NoError(t, s.Delete("never.set"))

	require.NoError(t, s.Save())
	require.NoError(t, s.Load())
	assert.Equal(t, []string{"search.threshold"}, s.Keys())
}

func TestConfigStore_SliceIsCopied(t *testing.T) {
	s := NewConfigStore(map[string]any{"k": []string{"a"}})
	got := s.GetStringSlice("k")
	got[0] = "changed"
	assert.Equal(t, []string{"a"}, s.GetStringSlice("k"))
}

func TestConfigStore_Concurrency(t *testing.T) {
	s := NewConfigStore()
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			_ = s.Set(key, i)
			_ = s.GetInt(key)
			_ = s.Keys()
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Keys(), 20)
}
