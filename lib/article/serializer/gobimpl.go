package serializer

import (
	"bytes"
	"encoding/gob"
	"github.com/ValentinKolb/aKV/lib/article"
)

// NewGOBSerializer creates a new article serializer using Go's binary gob format
func NewGOBSerializer() IArticleSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the IArticleSerializer interface using gob encoding
type gobSerializerImpl struct {
}

func gobMarshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func gobUnmarshal(b []byte, v interface{}) error {
	buf := bytes.NewBuffer(b)
	dec := gob.NewDecoder(buf)
	return dec.Decode(v)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IArticleSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) MarshalArticle(a *article.Article) ([]byte, error) {
	return gobMarshal(a)
}

func (g gobSerializerImpl) UnmarshalArticle(b []byte) (*article.Article, error) {
	a := &article.Article{}
	if err := gobUnmarshal(b, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (g gobSerializerImpl) MarshalPage(p *article.Page) ([]byte, error) {
	return gobMarshal(p)
}

func (g gobSerializerImpl) UnmarshalPage(b []byte) (*article.Page, error) {
	p := &article.Page{}
	if err := gobUnmarshal(b, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (g gobSerializerImpl) MarshalNewArticle(n *article.NewArticle) ([]byte, error) {
	return gobMarshal(n)
}

func (g gobSerializerImpl) UnmarshalNewArticle(b []byte) (*article.NewArticle, error) {
	n := &article.NewArticle{}
	if err := gobUnmarshal(b, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (g gobSerializerImpl) MarshalUpdate(u *article.UpdateArticle) ([]byte, error) {
	return gobMarshal(u)
}

func (g gobSerializerImpl) UnmarshalUpdate(b []byte) (*article.UpdateArticle, error) {
	u := &article.UpdateArticle{}
	if err := gobUnmarshal(b, u); err != nil {
		return nil, err
	}
	return u, nil
}
