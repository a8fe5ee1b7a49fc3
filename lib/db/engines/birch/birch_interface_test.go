package birch

import (
	"github.com/ValentinKolb/aKV/lib/db"
	dbtesting "github.com/ValentinKolb/aKV/lib/db/testing"
	"testing"
)

func Test(t *testing.T) {
	dbtesting.RunKVDBTests(t, "BirchDB", func() db.KVDB {
		return NewBirchDB(nil)
	})
}

func Benchmark(b *testing.B) {
	dbtesting.RunKVDBBenchmarks(b, "BirchDB", func() db.KVDB {
		return NewBirchDB(nil)
	})
}
