// Package client implements the RPC client for the article store. It
// provides an implementation of the store.IArticleStore interface that
// communicates with a remote server via RPC.
//
// The package focuses on:
//   - Transparent RPC access to a remote article store
//   - Integration with the transport and serialization layers
//   - Conversion of wire error responses back into store errors, keeping the
//     return code taxonomy intact across the network hop
//
// Key Components:
//
//   - NewRPCArticleStore: Factory function that creates a client implementing
//     the store.IArticleStore interface. This client forwards all operations
//     to remote servers via the configured transport layer. Because local and
//     remote stores share the interface, callers can switch between them
//     without code changes.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:     []string{"http://localhost:5000"},
//	  TimeoutSecond: 5,
//	  RetryCount:    3,
//	}
//
//	// Create the store client
//	articles, _ := client.NewRPCArticleStore(
//	  0, config,
//	  http.NewHttpClientTransport(),
//	  serializer.NewJSONSerializer(),
//	  aserializer.NewJSONSerializer(),
//	)
//
//	// Use the store
//	page, _ := articles.List(1, 20)
//
// Thread Safety:
//
//	All client implementations are thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
