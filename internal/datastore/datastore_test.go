package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurework-1/NestEgg-Journal/internal/conf"
	"github.com/futurework-1/NestEgg-Journal/internal/errors"
)

// runContract exercises the behaviour every backend must share
func runContract(t *testing.T, store Interface) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := store.Get("absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("alpha", []byte(`["Robin"]`)))
		v, ok, err := store.Get("alpha")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte(`["Robin"]`), v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set("alpha", []byte(`["Robin","Wren"]`)))
		v, _, err := store.Get("alpha")
		require.NoError(t, err)
		assert.Equal(t, []byte(`["Robin","Wren"]`), v)
	})

	t.Run("empty value is present", func(t *testing.T) {
		require.NoError(t, store.Set("empty", nil))
		v, ok, err := store.Get("empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("keys sorted", func(t *testing.T) {
		require.NoError(t, store.Set("beta", []byte("1")))
		keys, err := store.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta", "empty"}, keys)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("alpha"))
		require.NoError(t, store.Delete("alpha"))
		_, ok, err := store.Get("alpha")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMemoryStoreContract(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Open())
	runContract(t, store)
	require.NoError(t, store.Close())
}

func TestSQLiteStoreContract(t *testing.T) {
	store := NewSQLiteStore(MemoryDSN, nil)
	require.NoError(t, store.Open())
	t.Cleanup(func() { _ = store.Close() })
	runContract(t, store)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	store := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, store.Set("k", buf))
	buf[0] = 'x'

	v, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))

	v[1] = 'y'
	again, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nestegg.db")

	first := NewSQLiteStore(path, nil)
	require.NoError(t, first.Open())
	require.NoError(t, SaveStrings(first, KeyFavouriteBirds, []string{"Wren", "Blue Tit"}))
	require.NoError(t, first.Close())

	second := NewSQLiteStore(path, nil)
	require.NoError(t, second.Open())
	t.Cleanup(func() { _ = second.Close() })

	list, err := LoadStrings(second, KeyFavouriteBirds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Blue Tit", "Wren"}, list)
}

func TestClosedStoresReturnErrors(t *testing.T) {
	sqlite := NewSQLiteStore(MemoryDSN, nil)
	_, _, err := sqlite.Get("k")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryDatabase))

	mem := NewMemoryStore()
	require.NoError(t, mem.Close())
	require.Error(t, mem.Set("k", nil))
	require.NoError(t, mem.Open())
	require.NoError(t, mem.Set("k", nil))
}

func TestJSONHelpers(t *testing.T) {
	store := NewMemoryStore()

	t.Run("missing strings are empty", func(t *testing.T) {
		list, err := LoadStrings(store, KeyStudiedBirds)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("strings are saved sorted", func(t *testing.T) {
		require.NoError(t, SaveStrings(store, KeyStudiedBirds, []string{"c", "a", "b"}))
		raw, _, err := store.Get(KeyStudiedBirds)
		require.NoError(t, err)
		assert.JSONEq(t, `["a","b","c"]`, string(raw))
	})

	t.Run("nil list encodes as empty array", func(t *testing.T) {
		require.NoError(t, SaveStrings(store, KeySawBird, nil))
		raw, _, err := store.Get(KeySawBird)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("decode failure is categorized", func(t *testing.T) {
		require.NoError(t, store.Set(KeyFoundEgg, []byte("{not json")))
		_, err := LoadStrings(store, KeyFoundEgg)
		require.Error(t, err)
		assert.True(t, errors.IsCategory(err, errors.CategoryBlobDecode))
	})

	t.Run("scalars", func(t *testing.T) {
		require.NoError(t, SaveJSON(store, KeyBestMoves, 14))
		n, ok, err := LoadInt(store, KeyBestMoves)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 14, n)

		_, ok, err = LoadString(store, KeyDistanceUnit)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNewSelectsBackend(t *testing.T) {
	store, err := New(&conf.StorageSettings{Type: conf.StorageMemory}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = New(&conf.StorageSettings{
		Type:   conf.StorageSQLite,
		SQLite: conf.SQLiteSettings{Path: MemoryDSN},
	}, nil)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = New(&conf.StorageSettings{Type: "redis"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = New(nil, nil)
	require.Error(t, err)
}

type countingRecorder struct {
	ops    map[string]int
	errors map[string]int
	timed  int
}

func (c *countingRecorder) RecordOperation(operation, status string) {
	c.ops[operation+"/"+status]++
}

func (c *countingRecorder) RecordDuration(string, float64) { c.timed++ }

func (c *countingRecorder) RecordError(operation, errorType string) {
	c.errors[operation+"/"+errorType]++
}

func TestInstrumentedStore(t *testing.T) {
	rec := &countingRecorder{ops: map[string]int{}, errors: map[string]int{}}
	mem := NewMemoryStore()
	store := NewInstrumentedStore(mem, rec)

	runContract(t, store)
	assert.Positive(t, rec.ops["set/success"])
	assert.Positive(t, rec.ops["get/success"])
	assert.Positive(t, rec.ops["keys/success"])

	require.NoError(t, store.Close())
	_, _, err := store.Get("anything")
	require.Error(t, err)
	assert.Equal(t, 1, rec.ops["get/error"])
	assert.Equal(t, 1, rec.errors["get/database"])
	assert.Equal(t, rec.timed, sum(rec.ops))

	assert.Same(t, mem, NewInstrumentedStore(mem, nil))
}

func sum(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
