package astore

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/aKV/lib/article"
	"github.com/ValentinKolb/aKV/lib/article/serializer"
	"github.com/ValentinKolb/aKV/lib/db"
	"github.com/ValentinKolb/aKV/lib/index"
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger("store")

// articleKeyPrefix namespaces article records in the key-value engine so
// they can share it with other record types.
const articleKeyPrefix = "article:"

// slugLen is the length of generated slugs.
const slugLen = 12

type storeImpl struct {
	db         db.KVDB
	idx        index.IIndex
	idxFactory index.IndexFactory
	serializer serializer.IArticleSerializer
	writeIdx   atomic.Uint64
}

// IPersistentArticleStore extends store.IArticleStore with snapshot
// persistence. Save writes the underlying engine state; Load restores it and
// rebuilds the chronological index from the decoded records.
type IPersistentArticleStore interface {
	store.IArticleStore

	// Save persists the current state of the store to the provided io.Writer.
	Save(w io.Writer) error
	// Load restores the store state provided by an io.Reader and rebuilds
	// the chronological index. Not safe for concurrent use with other
	// operations.
	Load(r io.Reader) error
}

// NewArticleStore creates a new local article store instance.
// This store implementation is not distributed and only works on a single node.
// It composes a key-value engine (record storage) with a chronological index
// (listing order); the two are updated record-first without a transaction.
func NewArticleStore(dbFactory store.DBFactory, idxFactory index.IndexFactory, s serializer.IArticleSerializer) IPersistentArticleStore {
	return &storeImpl{
		db:         dbFactory(),
		idx:        idxFactory(),
		idxFactory: idxFactory,
		serializer: s,
	}
}

// incAndGetIndex increments the write index and returns the new value.
// It is used to ensure that each write operation has a unique index.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incAndGetIndex() uint64 {
	return s.writeIdx.Add(1)
}

// keyForSlug returns the engine key an article is stored under.
func keyForSlug(slug string) string {
	return articleKeyPrefix + slug
}

// newSlug generates a fresh random slug. Uniqueness is best-effort: the
// random space is large enough that collisions are not checked for.
func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLen]
}

// --------------------------------------------------------------------------
// Validation
// --------------------------------------------------------------------------

func validateNew(n *article.NewArticle) *store.Error {
	if n == nil {
		return store.NewError(store.RetCValidation, "create payload is required")
	}
	if n.Title == "" {
		return store.NewError(store.RetCValidation, "title is required")
	}
	if n.Description == "" {
		return store.NewError(store.RetCValidation, "description is required")
	}
	if n.Body == "" {
		return store.NewError(store.RetCValidation, "body is required")
	}
	// the author email is the identity the author filter matches on
	if n.Author.Email == "" {
		return store.NewError(store.RetCValidation, "author is required")
	}
	return nil
}

func validatePaging(page, pageSize int) *store.Error {
	if page < 1 {
		return store.NewError(store.RetCValidation, fmt.Sprintf("page must be >= 1, got %d", page))
	}
	if pageSize < 1 {
		return store.NewError(store.RetCValidation, fmt.Sprintf("pageSize must be >= 1, got %d", pageSize))
	}
	return nil
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// persist stores the record and then refreshes its index entry. The two
// writes are not atomic: a crash in between leaves a stored record that is
// invisible to listings until its next mutation.
func (s *storeImpl) persist(a *article.Article) error {
	data, err := s.serializer.MarshalArticle(a)
	if err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to encode article %q: %v", a.Slug, err))
	}

	s.db.Set(keyForSlug(a.Slug), data, s.incAndGetIndex())
	s.idx.Upsert(a.Slug, a.Score())
	return nil
}

// fetchMany batch-loads and decodes the records for the given slugs.
// Slugs whose record is absent or fails to decode are skipped with a
// warning; a listing never fails because of a single bad record.
func (s *storeImpl) fetchMany(slugs []string) []*article.Article {
	keys := make([]string, len(slugs))
	for i, slug := range slugs {
		keys[i] = keyForSlug(slug)
	}

	values, loaded := s.db.GetMany(keys)

	articles := make([]*article.Article, 0, len(slugs))
	for i := range slugs {
		if !loaded[i] {
			log.Warningf("article %q is indexed but has no stored record, skipping", slugs[i])
			continue
		}

		a, err := s.serializer.UnmarshalArticle(values[i])
		if err != nil {
			log.Warningf("stored record for article %q failed to decode, skipping: %v", slugs[i], err)
			continue
		}

		articles = append(articles, a)
	}

	return articles
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) List(page, pageSize int) (*article.Page, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}

	start := (page - 1) * pageSize
	slugs := s.idx.RangeDesc(start, start+pageSize-1)

	return &article.Page{
		Articles: s.fetchMany(slugs),
		Total:    s.idx.Count(),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *storeImpl) ListByAuthor(email string, page, pageSize int) (*article.Page, error) {
	if err := validatePaging(page, pageSize); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, store.NewError(store.RetCValidation, "author email is required")
	}

	// There is no per-author index: load every record in chronological
	// order and filter in memory. This scales with the corpus, not the
	// author's output.
	all := s.fetchMany(s.idx.AllDesc())

	filtered := make([]*article.Article, 0)
	for _, a := range all {
		if a.Author.Email == email {
			filtered = append(filtered, a)
		}
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return &article.Page{
		Articles: filtered[start:end],
		Total:    len(filtered),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *storeImpl) GetBySlug(slug string) (*article.Article, error) {
	value, ok := s.db.Get(keyForSlug(slug))
	if !ok {
		return nil, store.NewError(store.RetCNotFound, fmt.Sprintf("no article stored under slug %q", slug))
	}

	a, err := s.serializer.UnmarshalArticle(value)
	if err != nil {
		return nil, store.NewError(store.RetCDecode, fmt.Sprintf("stored record for slug %q failed to decode: %v", slug, err))
	}

	return a, nil
}

func (s *storeImpl) Create(n *article.NewArticle) (*article.Article, error) {
	if err := validateNew(n); err != nil {
		return nil, err
	}

	tags := n.TagList
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	a := &article.Article{
		Slug:        newSlug(),
		Title:       n.Title,
		Description: n.Description,
		Body:        n.Body,
		TagList:     tags,
		CreatedAt:   now,
		UpdatedAt:   now,
		Author:      n.Author,
	}

	if err := s.persist(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *storeImpl) Update(slug string, u *article.UpdateArticle) (*article.Article, error) {
	if u == nil {
		return nil, store.NewError(store.RetCValidation, "update payload is required")
	}

	old, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	// Read-modify-write without locking: two concurrent updates to the same
	// slug may interleave and the slower write wins wholesale.
	merged := u.Merge(old)
	merged.UpdatedAt = time.Now().UTC()
	if merged.TagList == nil {
		merged.TagList = []string{}
	}

	if err := s.persist(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *storeImpl) Delete(slug string) error {
	if slug == "" {
		return store.NewError(store.RetCValidation, "slug is required")
	}

	// record first, then index; deleting an absent slug is a no-op
	s.db.Delete(keyForSlug(slug), s.incAndGetIndex())
	s.idx.Remove(slug)
	return nil
}

func (s *storeImpl) Favorite(slug string, favorited bool) (*article.Article, error) {
	a, err := s.GetBySlug(slug)
	if err != nil {
		return nil, err
	}

	// only actual transitions move the counter; the floor is zero
	count := a.FavoritesCount
	if favorited && !a.Favorited {
		count++
	} else if !favorited && a.Favorited {
		count--
		if count < 0 {
			count = 0
		}
	}

	// a no-op transition still goes through Update and bumps UpdatedAt,
	// so re-favoriting pushes the article to the top of the listing
	return s.Update(slug, &article.UpdateArticle{
		Favorited:      &favorited,
		FavoritesCount: &count,
	})
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	return s.db.GetInfo(), nil
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func (s *storeImpl) Save(w io.Writer) error {
	if err := s.db.Save(w); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to save store: %v", err))
	}
	return nil
}

func (s *storeImpl) Load(r io.Reader) error {
	if err := s.db.Load(r); err != nil {
		return store.NewError(store.RetCInternalError, fmt.Sprintf("failed to load store: %v", err))
	}

	// continue the write index where the snapshot left off
	s.writeIdx.Store(s.db.WriteIdx())
	s.reindex()
	return nil
}

// reindex rebuilds the chronological index from the stored records. Records
// that fail to decode are skipped with a warning and stay unlisted until
// they are overwritten.
func (s *storeImpl) reindex() {
	s.idx = s.idxFactory()
	s.db.ForEach(func(value []byte) bool {
		a, err := s.serializer.UnmarshalArticle(value)
		if err != nil {
			log.Warningf("stored record failed to decode during reindex, skipping: %v", err)
			return true
		}
		s.idx.Upsert(a.Slug, a.Score())
		return true
	})
}
