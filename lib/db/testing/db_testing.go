package testing

import (
	"bytes"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/aKV/lib/db"
)

// DBFactory is a function that creates a new instance of a KVDB implementation
type DBFactory func() db.KVDB

// RunKVDBTests runs a comprehensive test suite for a KVDB implementation.
func RunKVDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory())
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory())
		})

		t.Run("Has", func(t *testing.T) {
			testHas(t, factory())
		})

		t.Run("GetMany", func(t *testing.T) {
			testGetMany(t, factory())
		})

		t.Run("ForEach", func(t *testing.T) {
			testForEach(t, factory())
		})

		t.Run("StaleWrites", func(t *testing.T) {
			testStaleWrites(t, factory())
		})

		t.Run("SaveLoad", func(t *testing.T) {
			testSaveLoad(t, factory)
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// Checks if the database supports the specified feature
// Skip the test if it is not supported
func requireFeature(t testing.TB, database db.KVDB, feature db.Feature) {
	if !database.SupportsFeature(feature) {
		t.Skip()
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	testKey := "test-key"
	testValue1 := []byte("test-value1")
	testValue2 := []byte("test-value2")

	database.Set(testKey, testValue1, 1)

	result, exists := database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after Set", testKey)
	}

	if !bytes.Equal(result, testValue1) {
		t.Errorf("Expected value %s, got %s", testValue1, result)
	}

	// overwrite is unconditional
	database.Set(testKey, testValue2, 2)

	result, exists = database.Get(testKey)
	if !exists {
		t.Errorf("Expected key %s to exist after overwrite", testKey)
	}

	if !bytes.Equal(result, testValue2) {
		t.Errorf("Expected value %s after overwrite, got %s", testValue2, result)
	}

	// the returned value must be a copy
	result[0] = 'X'
	result2, _ := database.Get(testKey)
	if !bytes.Equal(result2, testValue2) {
		t.Errorf("Stored value was corrupted by modifying a returned copy")
	}
}

func testDelete(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	testKey := "delete-key"
	database.Set(testKey, []byte("value"), 1)

	database.Delete(testKey, 2)

	if _, exists := database.Get(testKey); exists {
		t.Errorf("Expected key %s to be gone after Delete", testKey)
	}

	// deleting an absent key must be a no-op, not create an entry
	database.Delete("never-existed", 3)
	if _, exists := database.Get("never-existed"); exists {
		t.Errorf("Delete of an absent key created an entry")
	}
}

func testHas(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureHas)

	if database.Has("missing") {
		t.Errorf("Expected Has to return false for a missing key")
	}

	database.Set("present", []byte("v"), 1)
	if !database.Has("present") {
		t.Errorf("Expected Has to return true for a present key")
	}
}

func testGetMany(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGetMany)

	// seed some keys, leave gaps
	keys := make([]string, 10)
	for i := range keys {
		keys[i] = fmt.Sprintf("batch-key-%d", i)
		if i%2 == 0 {
			database.Set(keys[i], []byte(fmt.Sprintf("value-%d", i)), uint64(i+1))
		}
	}

	values, loaded := database.GetMany(keys)

	if len(values) != len(keys) || len(loaded) != len(keys) {
		t.Fatalf("GetMany must return slices of input length: got %d/%d, want %d",
			len(values), len(loaded), len(keys))
	}

	for i := range keys {
		if i%2 == 0 {
			if !loaded[i] {
				t.Errorf("Expected key %s to be loaded", keys[i])
				continue
			}
			want := []byte(fmt.Sprintf("value-%d", i))
			if !bytes.Equal(values[i], want) {
				t.Errorf("Expected value %s at slot %d, got %s", want, i, values[i])
			}
		} else {
			if loaded[i] {
				t.Errorf("Expected key %s to be absent", keys[i])
			}
			if values[i] != nil {
				t.Errorf("Expected nil value for absent key %s", keys[i])
			}
		}
	}

	// empty input
	values, loaded = database.GetMany(nil)
	if len(values) != 0 || len(loaded) != 0 {
		t.Errorf("GetMany(nil) must return empty slices")
	}
}

func testForEach(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureForEach)

	want := map[string]bool{}
	for i := 0; i < 20; i++ {
		value := fmt.Sprintf("iter-value-%d", i)
		want[value] = true
		database.Set(fmt.Sprintf("iter-key-%d", i), []byte(value), uint64(i+1))
	}

	seen := map[string]bool{}
	database.ForEach(func(value []byte) bool {
		seen[string(value)] = true
		return true
	})

	if len(seen) != len(want) {
		t.Errorf("Expected %d values from ForEach, got %d", len(want), len(seen))
	}
	for value := range want {
		if !seen[value] {
			t.Errorf("Expected value %s to be yielded by ForEach", value)
		}
	}

	// early termination
	count := 0
	database.ForEach(func(value []byte) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Expected ForEach to stop after fn returns false, saw %d values", count)
	}
}

func testStaleWrites(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	testKey := "stale-key"
	database.Set(testKey, []byte("new"), 10)

	// a write with an older index must be ignored
	database.Set(testKey, []byte("old"), 5)

	result, _ := database.Get(testKey)
	if !bytes.Equal(result, []byte("new")) {
		t.Errorf("Stale write was not ignored: got %s", result)
	}
}

func testSaveLoad(t *testing.T, factory DBFactory) {
	database := factory()
	defer database.Close()

	requireFeature(t, database, db.FeatureSave)
	requireFeature(t, database, db.FeatureLoad)

	// populate
	for i := 0; i < 100; i++ {
		database.Set(fmt.Sprintf("save-key-%d", i), []byte(fmt.Sprintf("save-value-%d", i)), uint64(i+1))
	}

	var buf bytes.Buffer
	if err := database.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := factory()
	defer restored.Close()

	if err := restored.Load(&buf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("save-key-%d", i)
		want := []byte(fmt.Sprintf("save-value-%d", i))

		got, exists := restored.Get(key)
		if !exists {
			t.Errorf("Expected key %s to exist after Load", key)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Expected value %s for key %s, got %s", want, key, got)
		}
	}

	// the write index must survive the round trip
	if restored.WriteIdx() != database.WriteIdx() {
		t.Errorf("Expected write index %d after Load, got %d", database.WriteIdx(), restored.WriteIdx())
	}

	// loading garbage must fail
	if err := restored.Load(bytes.NewReader([]byte("not a database file"))); err == nil {
		t.Errorf("Expected Load of invalid data to fail")
	}
}

func testEdgeCases(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)

	// empty key
	database.Set("", []byte("empty-key-value"), 1)
	if result, exists := database.Get(""); !exists || !bytes.Equal(result, []byte("empty-key-value")) {
		t.Errorf("Empty key round trip failed: exists=%v value=%s", exists, result)
	}

	// empty value
	database.Set("empty-value-key", []byte{}, 2)
	if result, exists := database.Get("empty-value-key"); !exists || len(result) != 0 {
		t.Errorf("Empty value round trip failed: exists=%v len=%d", exists, len(result))
	}

	// nil value
	database.Set("nil-value-key", nil, 3)
	if _, exists := database.Get("nil-value-key"); !exists {
		t.Errorf("Nil value round trip failed")
	}

	// large value (1 MB)
	large := make([]byte, 1024*1024)
	for i := range large {
		large[i] = byte(i % 251)
	}
	database.Set("large-value-key", large, 4)
	if result, exists := database.Get("large-value-key"); !exists || !bytes.Equal(result, large) {
		t.Errorf("Large value round trip failed")
	}
}

func testConcurrentUsage(t *testing.T, database db.KVDB) {
	defer database.Close()

	requireFeature(t, database, db.FeatureSet)
	requireFeature(t, database, db.FeatureGet)
	requireFeature(t, database, db.FeatureDelete)

	const (
		goroutines = 8
		opsPerG    = 200
	)

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < opsPerG; i++ {
				key := fmt.Sprintf("conc-key-%d-%d", g, i)
				database.Set(key, []byte("v"), uint64(g*opsPerG+i+1))
				if _, exists := database.Get(key); !exists {
					t.Errorf("Key %s missing directly after Set", key)
				}
				database.Delete(key, uint64(g*opsPerG+i+2))
			}
		}(g)
	}

	wg.Wait()
}
