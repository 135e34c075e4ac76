package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index", indexCmd.Use)
	assert.Equal(t, "reindex [slug]", reindexCmd.Use)
}

func TestIndexCmd_HasFlags(t *testing.T) {
	require.NotNil(t, indexCmd.Flags().Lookup("slug"))
	require.NotNil(t, indexCmd.Flags().Lookup("watch"))
}

func TestIndexCmd_IndexesAll(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Indexed 2 articles")
	assert.Contains(t, out, "Chunks: 7")
	assert.Contains(t, out, "Tokens: 1234")
}

func TestIndexCmd_SingleSlug(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	stub := &stubIndexer{}
	indexer = stub

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--slug", "css-grid"})
	defer func() {
		rootCmd.SetArgs(nil)
		indexSlug = ""
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"css-grid"}, stub.indexedSlugs)
	assert.Contains(t, buf.String(), "Indexed css-grid")
}

func TestReindexCmd(t *testing.T) {
	cleanup := setupTestServices(t)
	defer cleanup()

	stub := &stubIndexer{}
	indexer = stub

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"reindex", "old-post"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, []string{"old-post"}, stub.reindexed)
	assert.Contains(t, buf.String(), "Re-indexed old-post")
}

func TestReindexCmd_RequiresSlug(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"reindex"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestIndexCmd_ErrorsWithoutIndexer(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
