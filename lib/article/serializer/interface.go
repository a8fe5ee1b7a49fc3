package serializer

import "github.com/ValentinKolb/aKV/lib/article"

// IArticleSerializer is the interface for all article payload serializers.
// It covers the persisted record itself plus the operation payloads that
// cross the RPC boundary.
type IArticleSerializer interface {
	// MarshalArticle serializes an article record into a byte array
	MarshalArticle(a *article.Article) ([]byte, error)
	// UnmarshalArticle deserializes a byte array into an article record
	UnmarshalArticle(b []byte) (*article.Article, error)

	// MarshalPage serializes a listing page into a byte array
	MarshalPage(p *article.Page) ([]byte, error)
	// UnmarshalPage deserializes a byte array into a listing page
	UnmarshalPage(b []byte) (*article.Page, error)

	// MarshalNewArticle serializes a create payload into a byte array
	MarshalNewArticle(n *article.NewArticle) ([]byte, error)
	// UnmarshalNewArticle deserializes a byte array into a create payload
	UnmarshalNewArticle(b []byte) (*article.NewArticle, error)

	// MarshalUpdate serializes a partial update payload into a byte array
	MarshalUpdate(u *article.UpdateArticle) ([]byte, error)
	// UnmarshalUpdate deserializes a byte array into a partial update payload
	UnmarshalUpdate(b []byte) (*article.UpdateArticle, error)
}
