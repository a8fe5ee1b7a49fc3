// Package server implements the RPC server for the article store. It
// provides the adapter translating wire messages into article store calls,
// along with the core server implementation that manages shards, request
// routing, metrics and snapshot persistence.
//
// The package focuses on:
//   - Server-side RPC request handling for all article operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Serving multiple independent article store shards from one process
//   - Per-operation request, error and latency metrics
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server
//     adapters, with the Handle method that processes incoming requests
//     against a store.IArticleStore.
//
//   - NewArticleStoreServerAdapter: Factory function creating the adapter for
//     article operations, translating RPC requests to store method calls and
//     encoding the article payloads.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards:        1,
//	  Endpoint:      "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  http.NewHttpServerTransport(),
//	  serializer.NewJSONSerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Each shard is an independent article store with its own engine, index and
// slug space. When a snapshot directory is configured, every shard is
// restored from its snapshot file on startup and persisted on SIGINT/SIGTERM.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent
//	requests across multiple connections. Each request is processed
//	independently. The Serve method is not thread-safe and should be called
//	only once.
package server
