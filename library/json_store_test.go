package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lentCatalog returns the sample catalog with some lending and rating activity.
func lentCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := newTestCatalog(t)
	_, err := c.Borrow(1)
	require.NoError(t, err)
	_, err = c.Return(1)
	require.NoError(t, err)
	_, err = c.Borrow(4)
	require.NoError(t, err)
	_, err = c.Rate(2, 4)
	require.NoError(t, err)
	require.True(t, c.RemoveBook(6))
	return c
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibliotheque.json")
	store := NewJSONStore(path)
	want := lentCatalog(t).Books()

	require.NoError(t, store.Save(want))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestJSONStoreRoundTripEmpty(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "empty.json"))

	require.NoError(t, store.Save(nil))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []Book{}, got)
}

func TestJSONStoreMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))
	got, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestJSONStoreCorruptData(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "this is not json"},
		{"object instead of list", `{"id": 1}`},
		{"null", "null"},
		{"truncated", `[{"id": 1, "titre": "A"`},
		{"wrong field type", `[{"id": 1, "annee_publication": "1949"}]`},
		{"unknown action", `[{"id": 1, "historique": [{"action": "lost", "date": "2024-01-01 10:00"}]}]`},
		{"zero id", `[{"id": 0, "titre": "A"}]`},
		{"duplicate id", `[{"id": 1}, {"id": 1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := NewJSONStore(path).Load()
			assert.ErrorIs(t, err, ErrCorruptData)
			assert.Nil(t, got)
		})
	}
}

func TestJSONStoreReadsLegacyRecords(t *testing.T) {
	legacy := `[
    {
        "id": 1,
        "titre": "1984",
        "auteur": "George Orwell",
        "genre": "Dystopie",
        "annee_publication": 1949,
        "prix": 12.99,
        "disponible": true,
        "note": 0,
        "historique": [
            {"action": "emprunt", "date": "2024-05-02 10:15"},
            {"action": "retour", "date": "2024-05-09 18:02"}
        ]
    },
    {
        "id": 3,
        "titre": "La Peste",
        "auteur": "Albert Camus",
        "genre": "Roman",
        "annee_publication": 1947,
        "prix": 11,
        "disponible": true
    }
]`
	path := filepath.Join(t.TempDir(), "bibliotheque.json")
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	got, err := NewJSONStore(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []HistoryEntry{
		{Action: ActionBorrow, Date: "2024-05-02 10:15"},
		{Action: ActionReturn, Date: "2024-05-09 18:02"},
	}, got[0].History)
	assert.Equal(t, 11.0, got[1].Price)
	assert.Equal(t, 0, got[1].Rating)
	assert.Equal(t, []HistoryEntry{}, got[1].History)
}

func TestJSONStoreWritesCurrentActionNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibliotheque.json")
	require.NoError(t, NewJSONStore(path).Save(lentCatalog(t).Books()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"action": "borrow"`)
	assert.Contains(t, string(data), `"action": "return"`)
	assert.Contains(t, string(data), `"titre": "1984"`)
}

func TestJSONStoreSaveFailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bibliotheque.json")
	store := NewJSONStore(path)
	require.NoError(t, store.Save(newTestCatalog(t).Books()))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// A directory in place of the target makes the final rename fail.
	blocked := NewJSONStore(filepath.Join(dir, "sub"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "keep"), nil, 0o644))
	err = blocked.Save(nil)
	assert.ErrorIs(t, err, ErrSerialization)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temp files are cleaned up")
}
