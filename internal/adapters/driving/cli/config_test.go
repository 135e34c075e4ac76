package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCmd_SetAndGet(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "embedding.provider", "ollama"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "embedding.provider"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "ollama")
}

func TestConfigCmd_SetParsesTypes(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "set", "retrieval.max_results", "7"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, 7, configStore.GetInt("retrieval.max_results"))

	rootCmd.SetArgs([]string{"config", "set", "index.watch", "true"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, configStore.GetBool("index.watch"))

	rootCmd.SetArgs([]string{"config", "set", "retrieval.threshold", "0.4"})
	require.NoError(t, rootCmd.Execute())
	assert.InDelta(t, 0.4, configStore.GetFloat("retrieval.threshold"), 1e-9)
}

func TestConfigCmd_GetMissingKey(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"config", "get", "does.not.exist"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigCmd_List(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	require.NoError(t, configStore.Set("a.key", "one"))
	require.NoError(t, configStore.Set("b.key", "two"))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"config", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "a.key = one")
	assert.Contains(t, out, "b.key = two")
}
