package questions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("decodes questions", func(t *testing.T) {
		doc := `
questions:
  - question: "Who hosted the inaugural Sky Party™?"
    answer: "Victor Ade"
    club: "Victor Ade Club"
  - question: "What is the Sky Party™ dress code?"
    answer: "Black Tie Only"
`
		got, err := Load(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Victor Ade Club", got[0].Club)
		assert.Empty(t, got[1].Club)
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		doc := `
questions:
  - question: "Q"
    answer: "A"
    hint: "not allowed"
`
		_, err := Load(strings.NewReader(doc))
		require.Error(t, err)
	})
}

func TestResolve(t *testing.T) {
	t.Run("empty path uses the built-in catalogue", func(t *testing.T) {
		got, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, DefaultCatalogue(), got)
	})

	t.Run("reads a bank file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bank.yaml")
		require.NoError(t, os.WriteFile(path, []byte("questions:\n  - question: Q\n    answer: A\n"), 0o600))

		got, err := Resolve(path)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Q", got[0].Question)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
