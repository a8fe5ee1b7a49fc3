package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/aKV/lib/db"
)

// RunKVDBBenchmarks runs a standard benchmark suite for a KVDB implementation.
func RunKVDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory())
		})
		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory())
		})
		b.Run("GetMany", func(b *testing.B) {
			benchmarkGetMany(b, factory())
		})
		b.Run("Delete", func(b *testing.B) {
			benchmarkDelete(b, factory())
		})
	})
}

const benchKeySpread = 1024

func benchKey(i int) string {
	return fmt.Sprintf("bench-key-%d", i%benchKeySpread)
}

func benchmarkSet(b *testing.B, database db.KVDB) {
	defer database.Close()
	requireFeature(b, database, db.FeatureSet)

	value := []byte("benchmark-value")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Set(benchKey(counter), value, uint64(counter+1))
			counter++
		}
	})
}

func benchmarkGet(b *testing.B, database db.KVDB) {
	defer database.Close()
	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureGet)

	for i := 0; i < benchKeySpread; i++ {
		database.Set(benchKey(i), []byte("benchmark-value"), uint64(i+1))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Get(benchKey(counter))
			counter++
		}
	})
}

func benchmarkGetMany(b *testing.B, database db.KVDB) {
	defer database.Close()
	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureGetMany)

	keys := make([]string, 100)
	for i := range keys {
		keys[i] = benchKey(i)
		database.Set(keys[i], []byte("benchmark-value"), uint64(i+1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.GetMany(keys)
	}
}

func benchmarkDelete(b *testing.B, database db.KVDB) {
	defer database.Close()
	requireFeature(b, database, db.FeatureSet)
	requireFeature(b, database, db.FeatureDelete)

	for i := 0; i < benchKeySpread; i++ {
		database.Set(benchKey(i), []byte("benchmark-value"), uint64(i+1))
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		counter := 0
		for pb.Next() {
			database.Delete(benchKey(counter), uint64(benchKeySpread+counter+1))
			counter++
		}
	})
}
