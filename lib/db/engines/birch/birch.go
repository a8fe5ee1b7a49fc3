package birch

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"github.com/ValentinKolb/aKV/lib/db"
	"github.com/ValentinKolb/aKV/lib/db/engines/birch/internal"
	"github.com/ValentinKolb/aKV/lib/db/util"
	"io"
	"runtime"
	"sync"
	"sync/atomic"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Constants for database behavior and structure
const (
	magicNum     = "BIRCHDB\x00" // File format identifier
	birchVersion = 1             // Database version
)

// --------------------------------------------------------------------------
// Core Birch database structure
// --------------------------------------------------------------------------

// birchImpl implements a sharded in-memory database optimized for
// read-heavy workloads with batched lookups
type birchImpl struct {
	numShards int               // Number of shards
	seed      uint64            // Seed for hash function
	shards    []*internal.Shard // Array of shards
	currIndex atomic.Uint64     // Current logical timestamp
}

// DBOptions configures the birchImpl behavior during initialization
type DBOptions struct {
	NumShards int // Number of shards (0 = auto)
}

// DefaultOptions returns the default birchImpl options
func DefaultOptions() *DBOptions {
	return &DBOptions{
		NumShards: runtime.NumCPU(), // Auto-determine based on CPU count
	}
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// NewBirchDB creates a new BirchDB instance with the specified options (optional)
//
// Thread-safety: This function is not thread-safe and should only be called once
// during initialization.
func NewBirchDB(opts *DBOptions) db.KVDB {

	// Generate default options if not provided
	if opts == nil || opts.NumShards <= 0 {
		opts = DefaultOptions()
	}

	// Generate a seed for this birchImpl instance
	seed := util.GenerateSeed()
	hasher := createIdentityHasher()

	// Create shards
	shards := make([]*internal.Shard, opts.NumShards)
	for i := 0; i < opts.NumShards; i++ {
		shards[i] = internal.NewShard(hasher)
	}

	newDB := &birchImpl{
		numShards: opts.NumShards,
		seed:      seed,
		shards:    shards,
	}

	newDB.currIndex.Store(0)

	return newDB
}

// --------------------------------------------------------------------------
// Hash Helper Functions
// --------------------------------------------------------------------------

// StringToUint64 converts a string to a util.UintKey with hashing
// and applies the birchImpl seed to ensure uniqueness between birchImpl instances
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) StringToUint64(s string) util.UintKey {
	return util.HashString(s, birch.seed)
}

// createIdentityHasher creates a hash function that combines a key with a seed
func createIdentityHasher() func(util.UintKey, uint64) uint64 {
	return func(key util.UintKey, mapSeed uint64) uint64 {
		return uint64(key) ^ mapSeed
	}
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Set inserts or updates an entry with the given key and value.
// If the key already exists, the old value is overwritten unconditionally
// (unless the write carries a stale write index).
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Set(key string, value []byte, writeIndex uint64) {

	// update the current index
	birch.SetWriteIdx(writeIndex)

	intKey := birch.StringToUint64(key)
	shard := internal.GetShard(intKey, birch.shards)

	// Copy value to prevent memory corruption
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	// Use Compute for atomic conditional update
	shard.Data.Compute(intKey, func(oldEntry internal.Entry, oldEntryExists bool) (internal.Entry, bool) {
		// If the key doesn't exist or the current index is newer or equal, update
		if !oldEntryExists || writeIndex >= oldEntry.Index {
			return internal.Entry{
				Value: valueCopy,
				Index: writeIndex,
			}, false
		}

		// Otherwise, keep the old entry (stale writes are ignored)
		return oldEntry, false
	})
}

// Delete removes an entry with the specified key.
// The key and value are removed from the database immediately.
// Deleting an absent key is a no-op.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Delete(key string, writeIndex uint64) {

	// update the current index
	birch.SetWriteIdx(writeIndex)

	intKey := birch.StringToUint64(key)
	shard := internal.GetShard(intKey, birch.shards)

	shard.Data.Compute(intKey, func(oldEntry internal.Entry, oldEntryExists bool) (internal.Entry, bool) {
		if !oldEntryExists {
			return oldEntry, true // set delete to true because else the value will be created
		}

		// stale deletes are ignored
		if writeIndex < oldEntry.Index {
			return oldEntry, false
		}

		return internal.Entry{}, true
	})
}

// --------------------------------------------------------------------------
// Core KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get retrieves a value for a key.
// The boolean indicates whether a value for the key was found.
// The returned value is a copy of the stored data and therefore safe to use and modify.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Get(key string) ([]byte, bool) {
	intKey := birch.StringToUint64(key)
	shard := internal.GetShard(intKey, birch.shards)

	entry, ok := shard.Data.Load(intKey)
	if !ok {
		return nil, false
	}

	// copy data
	data := make([]byte, len(entry.Value))
	copy(data, entry.Value)

	return data, true
}

// GetMany retrieves the values for an ordered list of keys in a single pass.
// The returned slices have the same length and order as the input keys;
// values[i] is nil and loaded[i] false for keys that are absent.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// Note that the result is not a snapshot: concurrent mutations may be
// observed for some keys and not for others.
func (birch *birchImpl) GetMany(keys []string) ([][]byte, []bool) {
	values := make([][]byte, len(keys))
	loaded := make([]bool, len(keys))

	for i, key := range keys {
		intKey := birch.StringToUint64(key)
		shard := internal.GetShard(intKey, birch.shards)

		entry, ok := shard.Data.Load(intKey)
		if !ok {
			continue
		}

		data := make([]byte, len(entry.Value))
		copy(data, entry.Value)

		values[i] = data
		loaded[i] = true
	}

	return values, loaded
}

// Has checks if a key exists in the database.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
func (birch *birchImpl) Has(key string) bool {
	intKey := birch.StringToUint64(key)
	shard := internal.GetShard(intKey, birch.shards)

	_, ok := shard.Data.Load(intKey)
	return ok
}

// ForEach calls fn once for every stored value until fn returns false.
// Keys are stored hashed and cannot be recovered, so only values are yielded.
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// The iteration is not a snapshot: concurrent mutations may or may not be
// observed.
func (birch *birchImpl) ForEach(fn func(value []byte) bool) {
	for _, shard := range birch.shards {
		stop := false
		shard.Data.Range(func(key util.UintKey, entry internal.Entry) bool {
			data := make([]byte, len(entry.Value))
			copy(data, entry.Value)

			if !fn(data) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save persists the database to the writer
// Concurrent reading and writing is allowed during Save operation
//
// Thread-safety: This function allows concurrent operations with all other functions
// except Load. It takes snapshots of the data without blocking modifications.
func (birch *birchImpl) Save(w io.Writer) error {
	// Use a buffered writer for better performance
	bw := bufio.NewWriterSize(w, 1024*1024) // 1 MB buffer

	type entryToSave struct {
		key   util.UintKey
		entry internal.Entry
	}

	var dataEntries []entryToSave

	// Collect snapshots of all shards
	for _, shard := range birch.shards {
		shard.Data.Range(func(key util.UintKey, entry internal.Entry) bool {
			// Create deep copy
			entryCopy := internal.Entry{
				Index: entry.Index,
				Value: make([]byte, len(entry.Value)),
			}
			copy(entryCopy.Value, entry.Value)

			dataEntries = append(dataEntries, entryToSave{key, entryCopy})
			return true
		})
	}

	// Write file header
	if _, err := bw.WriteString(magicNum); err != nil {
		return err
	}

	// Write birch version
	if err := binary.Write(bw, binary.LittleEndian, uint8(birchVersion)); err != nil {
		return err
	}

	// Write seed
	if err := binary.Write(bw, binary.LittleEndian, birch.seed); err != nil {
		return err
	}

	// Write total data entries count
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(dataEntries))); err != nil {
		return err
	}

	// Write data entries
	for _, item := range dataEntries {

		// Write key
		if err := binary.Write(bw, binary.LittleEndian, uint64(item.key)); err != nil {
			return err
		}

		// Write write index
		if err := binary.Write(bw, binary.LittleEndian, item.entry.Index); err != nil {
			return err
		}

		// Write value length
		valueLen := uint32(len(item.entry.Value))
		if err := binary.Write(bw, binary.LittleEndian, valueLen); err != nil {
			return err
		}

		// Write value bytes
		if _, err := bw.Write(item.entry.Value); err != nil {
			return err
		}
	}

	// Flush buffer to ensure all data is written
	return bw.Flush()
}

// Load restores a database from the reader
//
// Thread-safety: This function is not thread-safe and should not be called concurrently
func (birch *birchImpl) Load(r io.Reader) error {
	// Use a buffered reader for better performance
	br := bufio.NewReaderSize(r, 1024*1024) // 1 MB buffer

	// Read and verify magic number
	magicBytes := make([]byte, len(magicNum))
	if _, err := io.ReadFull(br, magicBytes); err != nil {
		return err
	}

	if string(magicBytes) != magicNum {
		return fmt.Errorf("invalid file format: magic number mismatch")
	}

	// Read and verify version
	var version uint8
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return err
	}

	if int(version) != birchVersion {
		return fmt.Errorf("unsupported version: %d (expected %d)", version, birchVersion)
	}

	// Read seed
	var seed uint64
	if err := binary.Read(br, binary.LittleEndian, &seed); err != nil {
		return err
	}

	// Recreate empty shards with the loaded seed
	hasher := createIdentityHasher()
	shards := make([]*internal.Shard, birch.numShards)
	for i := 0; i < birch.numShards; i++ {
		shards[i] = internal.NewShard(hasher)
	}

	birch.shards = shards
	birch.seed = seed
	birch.currIndex.Store(0)

	// Read data entries count
	var dataCount uint64
	if err := binary.Read(br, binary.LittleEndian, &dataCount); err != nil {
		return err
	}

	// Track the highest index seen during load
	var maxIndex uint64 = 0

	// Read data entries
	for i := uint64(0); i < dataCount; i++ {
		// Read key
		var keyUint uint64
		if err := binary.Read(br, binary.LittleEndian, &keyUint); err != nil {
			return err
		}
		key := util.UintKey(keyUint)

		// Read write index
		var writeIndex uint64
		if err := binary.Read(br, binary.LittleEndian, &writeIndex); err != nil {
			return err
		}

		if writeIndex > maxIndex {
			maxIndex = writeIndex
		}

		// Read value length
		var valueLen uint32
		if err := binary.Read(br, binary.LittleEndian, &valueLen); err != nil {
			return err
		}

		// Read value bytes
		value := make([]byte, valueLen)
		if _, err := io.ReadFull(br, value); err != nil {
			return err
		}

		// Find the appropriate shard and store entry
		shard := internal.GetShard(key, birch.shards)
		shard.Data.Store(key, internal.Entry{
			Value: value,
			Index: writeIndex,
		})
	}

	// Update current index to the highest seen during load
	birch.SetWriteIdx(maxIndex)

	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

// GetInfo returns statistics about the database
func (birch *birchImpl) GetInfo() db.DatabaseInfo {

	// create a size histogram for the info
	histogram := util.NewSizeHistogram()
	samplesPerShard := 100
	wg := sync.WaitGroup{}
	wg.Add(len(birch.shards))

	mu := sync.Mutex{}
	entryCount := 0
	shardSizes := make([]float64, len(birch.shards))

	// concurrently collect samples from all shards
	for shardIndex, shard := range birch.shards {
		go func(i int, s *internal.Shard) {
			defer wg.Done()
			count := 0
			s.Data.Range(func(key util.UintKey, entry internal.Entry) bool {
				histogram.AddSample(len(entry.Value))

				// only sample a few entries per shard
				count++
				return count < samplesPerShard
			})

			mu.Lock()
			defer mu.Unlock()

			entryCount += s.Data.Size()
			shardSizes[i] = float64(s.Data.Size())
		}(shardIndex, shard)
	}

	// wait for all shards to finish
	wg.Wait()

	// calculate size
	entryOverhead := 16 // 8 bytes each for key and index
	medianSize := histogram.MedianEstimate() + entryOverhead
	avgSize := histogram.AverageSize() + entryOverhead

	// weighted estimate (60% median, 40% average)
	sizeBytes := (medianSize*60 + avgSize*40) / 100

	// Metadata for this specific database implementation
	meta := &struct {
		CurrentWriteIndex uint64                 `json:"current_write_index"`
		ShardCount        int                    `json:"shard_count"`
		ShardDistribution util.DistributionStats `json:"shard_distribution"`
		Info              string                 `json:"info"`
	}{
		CurrentWriteIndex: birch.currIndex.Load(),
		ShardCount:        len(birch.shards),
		ShardDistribution: util.NewDistributionStats(shardSizes),
		Info:              "All values (including SizeBytes) are estimates and may vary depending on the database state.",
	}

	return db.DatabaseInfo{
		SizeBytes:  sizeBytes * entryCount,
		EntryCount: entryCount,
		DbType:     db.ImplBirch,
		SupportedFeatures: []db.Feature{
			db.FeatureSet, db.FeatureGet, db.FeatureGetMany,
			db.FeatureDelete, db.FeatureHas, db.FeatureForEach,
			db.FeatureSave, db.FeatureLoad,
		},
		Metadata: meta,
	}
}

// SupportsFeature checks if this implementation supports a specific KVDB feature
func (birch *birchImpl) SupportsFeature(feature db.Feature) bool {
	supportedFeatures := db.FeatureSet |
		db.FeatureGet |
		db.FeatureGetMany |
		db.FeatureDelete |
		db.FeatureHas |
		db.FeatureForEach |
		db.FeatureSave |
		db.FeatureLoad
	return supportedFeatures&feature == feature
}

// Close releases the database resources
func (birch *birchImpl) Close() error {
	return nil
}

// --------------------------------------------------------------------------
// Index and Timestamp Management
// --------------------------------------------------------------------------

// SetWriteIdx safely updates the current index
// It only updates if the new index is greater than the current one
//
// Thread-safety: This method is thread-safe and can be called concurrently.
// It uses atomic operations to ensure that the index only increases.
func (birch *birchImpl) SetWriteIdx(newIdx uint64) {
	// Only update if the new index is greater
	for {
		currIdx := birch.currIndex.Load()
		if newIdx <= currIdx {
			return
		}
		if birch.currIndex.CompareAndSwap(currIdx, newIdx) {
			return
		}
	}
}

// WriteIdx returns the current index of the database
func (birch *birchImpl) WriteIdx() uint64 {
	return birch.currIndex.Load()
}
