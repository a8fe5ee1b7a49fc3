package serializer

import (
	"encoding/json"
	"github.com/ValentinKolb/aKV/lib/article"
)

// NewJSONSerializer creates a new article serializer using json encoding.
// This is the default codec: the stored representation is the camelCase
// JSON document consumers of the store expect.
func NewJSONSerializer() IArticleSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the IArticleSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IArticleSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) MarshalArticle(a *article.Article) ([]byte, error) {
	return json.Marshal(a)
}

func (j jsonSerializerImpl) UnmarshalArticle(b []byte) (*article.Article, error) {
	a := &article.Article{}
	if err := json.Unmarshal(b, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (j jsonSerializerImpl) MarshalPage(p *article.Page) ([]byte, error) {
	return json.Marshal(p)
}

func (j jsonSerializerImpl) UnmarshalPage(b []byte) (*article.Page, error) {
	p := &article.Page{}
	if err := json.Unmarshal(b, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (j jsonSerializerImpl) MarshalNewArticle(n *article.NewArticle) ([]byte, error) {
	return json.Marshal(n)
}

func (j jsonSerializerImpl) UnmarshalNewArticle(b []byte) (*article.NewArticle, error) {
	n := &article.NewArticle{}
	if err := json.Unmarshal(b, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (j jsonSerializerImpl) MarshalUpdate(u *article.UpdateArticle) ([]byte, error) {
	return json.Marshal(u)
}

func (j jsonSerializerImpl) UnmarshalUpdate(b []byte) (*article.UpdateArticle, error) {
	u := &article.UpdateArticle{}
	if err := json.Unmarshal(b, u); err != nil {
		return nil, err
	}
	return u, nil
}
