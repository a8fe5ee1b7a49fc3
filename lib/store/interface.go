package store

import (
	"fmt"

	"github.com/ValentinKolb/aKV/lib/article"
	"github.com/ValentinKolb/aKV/lib/db"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// DBFactory is a function type that creates a new db used by the store.
// This is used to abstract the creation of the db from the store implementation.
type DBFactory func() db.KVDB

// IArticleStore is the generic interface for interacting with an article store.
// All operations return a *Error (nil on success) alongside their result.
//
// Listing semantics shared by List and ListByAuthor:
//   - page is 1-based, pageSize must be >= 1
//   - results are ordered by recency (most recently updated first)
//   - a page beyond the end of the collection yields an empty page, not an error
//   - Page.Total always reflects the full matching collection, not the window
type IArticleStore interface {
	// List returns one page of all articles ordered by recency.
	List(page, pageSize int) (result *article.Page, err error)
	// ListByAuthor returns one page of the articles written by the author with
	// the given email, ordered by recency. Page.Total counts only that
	// author's articles.
	ListByAuthor(email string, page, pageSize int) (result *article.Page, err error)
	// GetBySlug returns the article stored under the given slug.
	GetBySlug(slug string) (result *article.Article, err error)
	// Create stores a new article, assigns it a fresh slug and returns the
	// stored record.
	Create(n *article.NewArticle) (result *article.Article, err error)
	// Update applies a partial update to the article stored under the given
	// slug and returns the updated record. Absent fields keep their stored
	// values. UpdatedAt is always refreshed.
	Update(slug string, u *article.UpdateArticle) (result *article.Article, err error)
	// Delete removes the article stored under the given slug. Deleting an
	// absent slug is a no-op.
	Delete(slug string) (err error)
	// Favorite sets the favorite flag of the article stored under the given
	// slug and adjusts its favorites counter. Only actual transitions change
	// the counter; the counter never drops below zero.
	Favorite(slug string, favorited bool) (result *article.Article, err error)
	// GetDBInfo returns metadata about the database underlying the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetDBInfo() (info db.DatabaseInfo, err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCUnsupportedOperation:
		errorCode = "UnsupportedOperation"
	case RetCValidation:
		errorCode = "Validation"
	case RetCNotFound:
		errorCode = "NotFound"
	case RetCDecode:
		errorCode = "Decode"
	case RetCBackendUnavailable:
		errorCode = "BackendUnavailable"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("ArticleStoreError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new ArticleStoreError with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by underlying database.
	RetCValidation                          // 3: Operation payload failed validation.
	RetCNotFound                            // 4: No article is stored under the given slug.
	RetCDecode                              // 5: A stored payload could not be decoded.
	RetCBackendUnavailable                  // 6: The storage backend could not be reached.
)
