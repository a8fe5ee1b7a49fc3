package client

import (
	"fmt"

	"github.com/ValentinKolb/aKV/lib/article"
	aserializer "github.com/ValentinKolb/aKV/lib/article/serializer"
	"github.com/ValentinKolb/aKV/lib/db"
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/serializer"
	"github.com/ValentinKolb/aKV/rpc/transport"
)

// NewRPCArticleStore creates a new RPC-backed article store
// The function takes a shard ID, a config, a transport, an RPC serializer and
// an article serializer as parameters
// It returns a store.IArticleStore and an error
//
// The returned store forwards every operation to the server, so callers can
// swap it for the local astore implementation without code changes.
func NewRPCArticleStore(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	rpcSerializer serializer.IRPCSerializer,
	articleSerializer aserializer.IArticleSerializer,
) (store.IArticleStore, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC store
	s := rpcArticleStore{
		rpcClientAdapter: rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: rpcSerializer,
		},
		articles: articleSerializer,
	}

	// Return the RPC store
	return &s, nil
}

type rpcArticleStore struct {
	rpcClientAdapter
	articles aserializer.IArticleSerializer
}

// decodeArticle decodes the article payload of a response
func (i *rpcArticleStore) decodeArticle(resp *common.Message) (*article.Article, error) {
	a, err := i.articles.UnmarshalArticle(resp.Value)
	if err != nil {
		return nil, store.NewError(store.RetCDecode, fmt.Sprintf("failed to decode article payload: %v", err))
	}
	return a, nil
}

// decodePage decodes the page payload of a response
func (i *rpcArticleStore) decodePage(resp *common.Message) (*article.Page, error) {
	p, err := i.articles.UnmarshalPage(resp.Value)
	if err != nil {
		return nil, store.NewError(store.RetCDecode, fmt.Sprintf("failed to decode page payload: %v", err))
	}
	return p, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcArticleStore) List(page, pageSize int) (*article.Page, error) {
	req := common.NewListRequest(page, pageSize)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodePage(resp)
}

func (i *rpcArticleStore) ListByAuthor(email string, page, pageSize int) (*article.Page, error) {
	req := common.NewListByAuthorRequest(email, page, pageSize)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodePage(resp)
}

func (i *rpcArticleStore) GetBySlug(slug string) (*article.Article, error) {
	req := common.NewGetRequest(slug)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodeArticle(resp)
}

func (i *rpcArticleStore) Create(n *article.NewArticle) (*article.Article, error) {
	payload, err := i.articles.MarshalNewArticle(n)
	if err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to encode create payload: %v", err))
	}

	req := common.NewCreateRequest(payload)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodeArticle(resp)
}

func (i *rpcArticleStore) Update(slug string, u *article.UpdateArticle) (*article.Article, error) {
	payload, err := i.articles.MarshalUpdate(u)
	if err != nil {
		return nil, store.NewError(store.RetCInternalError, fmt.Sprintf("failed to encode update payload: %v", err))
	}

	req := common.NewUpdateRequest(slug, payload)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodeArticle(resp)
}

func (i *rpcArticleStore) Delete(slug string) error {
	req := common.NewDeleteRequest(slug)
	_, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcArticleStore) Favorite(slug string, favorited bool) (*article.Article, error) {
	req := common.NewFavoriteRequest(slug, favorited)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return i.decodeArticle(resp)
}

// GetDBInfo is not implemented for rpc
func (i *rpcArticleStore) GetDBInfo() (info db.DatabaseInfo, err error) {
	return db.DatabaseInfo{}, fmt.Errorf("the GetDBInfo() method is not implemented in the rpc client adapter")
}
