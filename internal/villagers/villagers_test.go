package villagers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

const testStore = `{
  "Rosie": {
    "gender": "Female",
    "personality": "Peppy",
    "species": "Cat",
    "birthday": "February 27",
    "catchphrase": "silly",
    "hobby": "Music",
    "sections": {"appearance": "A blue cat with big eyes."},
    "trivia": ["Appeared in the movie."]
  },
  "Bob": {
    "name": "Bob",
    "gender": "Male",
    "personality": "Lazy",
    "species": "Cat",
    "catchphrase": "pthhhpth"
  }
}`

func writeTestStore(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "villagers.json")
	assert.NoError(t, os.WriteFile(path, []byte(testStore), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	store, err := Load(writeTestStore(t))
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	rosie, ok := store.Get("Rosie")
	assert.True(t, ok)
	assert.Equal(t, "Rosie", rosie.Name) // filled in from the key
	assert.Equal(t, "Peppy", rosie.Personality)
	assert.Equal(t, "A blue cat with big eyes.", rosie.Sections["appearance"])
	assert.Len(t, rosie.Trivia, 1)

	_, ok = store.Get("Tom Nook")
	assert.False(t, ok)

	assert.Equal(t, "Bob,Rosie", strings.Join(store.Names(), ","))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
