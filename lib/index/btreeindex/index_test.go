package btreeindex

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestUpsertAndRangeDesc(t *testing.T) {
	idx := NewBTreeIndex()

	idx.Upsert("a", 100)
	idx.Upsert("b", 300)
	idx.Upsert("c", 200)

	if got := idx.Count(); got != 3 {
		t.Fatalf("Expected count 3, got %d", got)
	}

	got := idx.RangeDesc(0, 2)
	want := []string{"b", "c", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestUpsertReplacesScore(t *testing.T) {
	idx := NewBTreeIndex()

	idx.Upsert("a", 100)
	idx.Upsert("b", 200)

	// bump "a" to the top
	idx.Upsert("a", 300)

	if got := idx.Count(); got != 2 {
		t.Fatalf("Expected count 2 after re-upsert, got %d", got)
	}

	got := idx.RangeDesc(0, 1)
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v after score update, got %v", want, got)
	}
}

func TestRangeDescWindows(t *testing.T) {
	idx := NewBTreeIndex()
	for i := 0; i < 10; i++ {
		idx.Upsert(fmt.Sprintf("key-%d", i), int64(i))
	}

	tests := []struct {
		name       string
		start, end int
		want       []string
	}{
		{"FirstPage", 0, 2, []string{"key-9", "key-8", "key-7"}},
		{"MiddlePage", 3, 5, []string{"key-6", "key-5", "key-4"}},
		{"PartialLastPage", 8, 11, []string{"key-1", "key-0"}},
		{"BeyondCount", 20, 29, nil},
		{"SingleRank", 4, 4, []string{"key-5"}},
		{"InvertedRange", 5, 3, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := idx.RangeDesc(tc.start, tc.end)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("RangeDesc(%d, %d): expected %v, got %v", tc.start, tc.end, tc.want, got)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	idx := NewBTreeIndex()

	idx.Upsert("a", 100)
	idx.Upsert("b", 200)

	idx.Remove("b")

	if got := idx.Count(); got != 1 {
		t.Fatalf("Expected count 1 after Remove, got %d", got)
	}

	got := idx.AllDesc()
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("Expected [a], got %v", got)
	}

	// removing an absent key is a no-op
	idx.Remove("b")
	idx.Remove("never-there")
	if got := idx.Count(); got != 1 {
		t.Errorf("Expected count 1 after no-op removes, got %d", got)
	}
}

func TestAllDesc(t *testing.T) {
	idx := NewBTreeIndex()

	if got := idx.AllDesc(); len(got) != 0 {
		t.Errorf("Expected empty listing for empty index, got %v", got)
	}

	for i := 0; i < 5; i++ {
		idx.Upsert(fmt.Sprintf("key-%d", i), int64(i*10))
	}

	got := idx.AllDesc()
	want := []string{"key-4", "key-3", "key-2", "key-1", "key-0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	idx := NewBTreeIndex()

	const goroutines = 8

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for g := 0; g < goroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("key-%d-%d", g, i)
				idx.Upsert(key, int64(g*1000+i))
				idx.RangeDesc(0, 9)
				if i%2 == 0 {
					idx.Remove(key)
				}
			}
		}(g)
	}

	wg.Wait()

	if got := idx.Count(); got != goroutines*50 {
		t.Errorf("Expected %d entries after concurrent usage, got %d", goroutines*50, got)
	}
}
