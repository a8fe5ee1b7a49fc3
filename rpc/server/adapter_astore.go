package server

import (
	"fmt"

	aserializer "github.com/ValentinKolb/aKV/lib/article/serializer"
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/common"
)

// NewArticleStoreServerAdapter creates the adapter translating wire messages
// into IArticleStore calls. The article serializer encodes and decodes the
// payloads carried in Message.Value.
func NewArticleStoreServerAdapter(s aserializer.IArticleSerializer) IRPCServerAdapter {
	return &articleStoreServerAdapterImpl{serializer: s}
}

type articleStoreServerAdapterImpl struct {
	serializer aserializer.IArticleSerializer
}

func (adapter *articleStoreServerAdapterImpl) Handle(req *common.Message, articleStore store.IArticleStore) *common.Message {
	// Check for nil store
	if articleStore == nil {
		return common.NewErrorResponse("handler: store is nil")
	}

	// Handle different message types
	switch req.MsgType {
	case common.MsgTArtList:
		page, err := articleStore.List(req.Page, req.PageSize)
		if err != nil {
			return common.NewListResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalPage(page)
		return common.NewListResponse(val, err)

	case common.MsgTArtListByAuthor:
		page, err := articleStore.ListByAuthor(req.Author, req.Page, req.PageSize)
		if err != nil {
			return common.NewListByAuthorResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalPage(page)
		return common.NewListByAuthorResponse(val, err)

	case common.MsgTArtGet:
		a, err := articleStore.GetBySlug(req.Slug)
		if err != nil {
			return common.NewGetResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalArticle(a)
		return common.NewGetResponse(val, err)

	case common.MsgTArtCreate:
		payload, err := adapter.serializer.UnmarshalNewArticle(req.Value)
		if err != nil {
			return common.NewCreateResponse(nil, store.NewError(
				store.RetCValidation, fmt.Sprintf("failed to decode create payload: %v", err)))
		}
		a, err := articleStore.Create(payload)
		if err != nil {
			return common.NewCreateResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalArticle(a)
		return common.NewCreateResponse(val, err)

	case common.MsgTArtUpdate:
		payload, err := adapter.serializer.UnmarshalUpdate(req.Value)
		if err != nil {
			return common.NewUpdateResponse(nil, store.NewError(
				store.RetCValidation, fmt.Sprintf("failed to decode update payload: %v", err)))
		}
		a, err := articleStore.Update(req.Slug, payload)
		if err != nil {
			return common.NewUpdateResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalArticle(a)
		return common.NewUpdateResponse(val, err)

	case common.MsgTArtDelete:
		err := articleStore.Delete(req.Slug)
		return common.NewDeleteResponse(err)

	case common.MsgTArtFavorite:
		a, err := articleStore.Favorite(req.Slug, req.Favorited)
		if err != nil {
			return common.NewFavoriteResponse(nil, err)
		}
		val, err := adapter.serializer.MarshalArticle(a)
		return common.NewFavoriteResponse(val, err)

	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC ArticleStoreAdapter - Unsupported message type: %s", req.MsgType),
		)
	}
}
