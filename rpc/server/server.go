package server

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	aserializer "github.com/ValentinKolb/aKV/lib/article/serializer"
	"github.com/ValentinKolb/aKV/lib/db"
	"github.com/ValentinKolb/aKV/lib/db/engines/birch"
	"github.com/ValentinKolb/aKV/lib/index/btreeindex"
	"github.com/ValentinKolb/aKV/lib/store/astore"
	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/serializer"
	"github.com/ValentinKolb/aKV/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the store it encapsulates and the adapter
// that handles requests for the store
type serverShard struct {
	Store   astore.IPersistentArticleStore
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	}
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	rpcSerializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: rpcSerializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "shard not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Count the operation and time the adapter call
				requestsTotal(msg.MsgType).Inc()
				stopTimer := timeRequest(msg.MsgType)

				// Let the adapter handle the request
				respMsg = *shard.Adapter.Handle(&msg, shard.Store)

				stopTimer()
				if respMsg.Err != "" {
					requestErrors(msg.MsgType).Inc()
				}
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
		}
		return val
	})
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	articleSerializer := aserializer.NewJSONSerializer()

	// CREATE SHARDS

	/*
		Note: A single RPC server can serve any number of independent article
		store shards. Each shard has its own engine, index and slug space; a
		client addresses a shard by its id in the request path.
	*/

	shardCount := s.config.Shards
	if shardCount < 1 {
		shardCount = 1
	}

	for shardId := uint64(0); shardId < uint64(shardCount); shardId++ {
		articleStore := astore.NewArticleStore(
			func() db.KVDB { return birch.NewBirchDB(nil) },
			btreeindex.NewBTreeIndex,
			articleSerializer,
		)

		// Restore the shard from its snapshot if one exists
		if s.config.SnapshotDir != "" {
			if err := loadSnapshot(articleStore, s.snapshotPath(shardId)); err != nil {
				return err
			}
		}

		s.shards.Store(shardId, serverShard{
			Store:   articleStore,
			Adapter: NewArticleStoreServerAdapter(articleSerializer),
		})
		Logger.Infof("created article store for shard %d", shardId)
	}

	Logger.Infof("aKV setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}

	// Persist all shards before terminating
	if s.config.SnapshotDir != "" {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-sigCh
			Logger.Infof("received %v, saving snapshots", sig)
			s.saveSnapshots()
			os.Exit(0)
		}()
	}

	return s.transport.Listen(s.config)
}

// --------------------------------------------------------------------------
// Snapshot Persistence
// --------------------------------------------------------------------------

func (s *rpcServer) snapshotPath(shardId uint64) string {
	return filepath.Join(s.config.SnapshotDir, fmt.Sprintf("shard-%d.birch", shardId))
}

// loadSnapshot restores a store from the given snapshot file. A missing file
// is not an error, the shard simply starts empty.
func loadSnapshot(articleStore astore.IPersistentArticleStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer f.Close()

	if err := articleStore.Load(f); err != nil {
		return fmt.Errorf("failed to load snapshot %s: %w", path, err)
	}

	Logger.Infof("restored snapshot %s", path)
	return nil
}

func (s *rpcServer) saveSnapshots() {
	if err := os.MkdirAll(s.config.SnapshotDir, 0o755); err != nil {
		Logger.Errorf("failed to create snapshot dir %s: %v", s.config.SnapshotDir, err)
		return
	}

	s.shards.Range(func(shardId uint64, shard serverShard) bool {
		path := s.snapshotPath(shardId)

		f, err := os.Create(path)
		if err != nil {
			Logger.Errorf("failed to create snapshot %s: %v", path, err)
			return true
		}

		if err := shard.Store.Save(f); err != nil {
			Logger.Errorf("failed to save snapshot %s: %v", path, err)
		} else {
			Logger.Infof("saved snapshot %s", path)
		}

		if err := f.Close(); err != nil {
			Logger.Errorf("failed to close snapshot %s: %v", path, err)
		}
		return true
	})
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

// requestsTotal returns the request counter for an operation
func requestsTotal(t common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`akv_rpc_requests_total{op=%q}`, t.String()))
}

// requestErrors returns the error counter for an operation
func requestErrors(t common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`akv_rpc_request_errors_total{op=%q}`, t.String()))
}

// timeRequest starts timing an operation and returns the stop function
func timeRequest(t common.MessageType) func() {
	summary := metrics.GetOrCreateSummary(fmt.Sprintf(`akv_rpc_request_duration_seconds{op=%q}`, t.String()))
	start := time.Now()
	return func() { summary.UpdateDuration(start) }
}
