package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/aKV/rpc/client"
	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/transport"
)

// NewHttpClientTransport creates the HTTP client transport. Requests are
// balanced round-robin over all configured endpoints.
func NewHttpClientTransport() transport.IRPCClientTransport {
	return &httpClientTransport{}
}

type httpClientTransport struct {
	endpoints  []*url.URL
	client     *http.Client
	counter    uint32
	retryCount int
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

// Connect parses the configured endpoints and sets up the pooled HTTP client.
func (t *httpClientTransport) Connect(config common.ClientConfig) error {
	endpoints := make([]*url.URL, len(config.Endpoints))
	for i, endpoint := range config.Endpoints {
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return err
		}
		endpoints[i] = parsed
	}

	t.client = &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     time.Duration(config.TimeoutSecond) * time.Second,
		},
	}
	t.endpoints = endpoints
	t.counter = 0

	// at least one attempt is always made
	t.retryCount = config.RetryCount
	if t.retryCount < 1 {
		t.retryCount = 1
	}

	return nil
}

// Send posts the serialized request to the shard's path on the next endpoint.
// Failed attempts are retried up to the configured retry count.
func (t *httpClientTransport) Send(shardId uint64, req []byte) ([]byte, error) {
	if t.client == nil {
		return nil, fmt.Errorf("http transport not initialized")
	}

	// pick the next endpoint round-robin
	idx := atomic.AddUint32(&t.counter, 1) % uint32(len(t.endpoints))
	requestURL := fmt.Sprintf("%s/%v", t.endpoints[idx].String(), shardId)

	var httpResponse *http.Response
	var err error
	for i := 0; i < t.retryCount; i++ {
		// the body reader is consumed per attempt, so build a fresh request
		var httpRequest *http.Request
		httpRequest, err = http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(req))
		if err != nil {
			return nil, err
		}

		httpResponse, err = t.client.Do(httpRequest)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := httpResponse.Body.Close(); err != nil {
			client.Logger.Errorf("Failed to close response body: %v", err)
		}
	}()

	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http error: %s", httpResponse.Status)
	}

	return io.ReadAll(httpResponse.Body)
}

// Close drops the pooled connections and resets the transport.
func (t *httpClientTransport) Close() error {
	if t.client != nil {
		t.client.CloseIdleConnections()
	}

	t.client = nil
	t.endpoints = nil

	return nil
}
