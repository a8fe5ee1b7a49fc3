package article

import "time"

// --------------------------------------------------------------------------
// Core Types
// --------------------------------------------------------------------------

// Author is the identity snapshot embedded in every article. It is
// denormalized into the record at creation time and never re-synced if the
// identity changes later.
type Author struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	Sub     string `json:"sub,omitempty"`
}

// Article is the persisted content record. The slug is the primary key and
// is assigned once, by the store, at creation. UpdatedAt is re-set on every
// mutation and drives the chronological index ordering.
type Article struct {
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	TagList        []string  `json:"tagList"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Favorited      bool      `json:"favorited"`
	FavoritesCount int       `json:"favoritesCount"`
	Author         Author    `json:"author"`
}

// Score returns the index score for the article: UpdatedAt as epoch
// milliseconds.
func (a *Article) Score() int64 {
	return a.UpdatedAt.UnixMilli()
}

// --------------------------------------------------------------------------
// Operation Payloads
// --------------------------------------------------------------------------

// NewArticle is the payload for creating an article. Title, Description,
// Body and the author identity are required; TagList is optional.
type NewArticle struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList,omitempty"`
	Author      Author   `json:"author"`
}

// UpdateArticle is the partial payload for updating an article. Nil fields
// keep their prior values; set fields overwrite them.
type UpdateArticle struct {
	Title          *string   `json:"title,omitempty"`
	Description    *string   `json:"description,omitempty"`
	Body           *string   `json:"body,omitempty"`
	TagList        *[]string `json:"tagList,omitempty"`
	Favorited      *bool     `json:"favorited,omitempty"`
	FavoritesCount *int      `json:"favoritesCount,omitempty"`
}

// Merge applies the set fields of the update over the given article and
// returns the merged copy. CreatedAt, Slug and Author are never touched;
// UpdatedAt is the caller's responsibility.
func (u *UpdateArticle) Merge(old *Article) *Article {
	merged := *old

	if u.Title != nil {
		merged.Title = *u.Title
	}
	if u.Description != nil {
		merged.Description = *u.Description
	}
	if u.Body != nil {
		merged.Body = *u.Body
	}
	if u.TagList != nil {
		merged.TagList = *u.TagList
	}
	if u.Favorited != nil {
		merged.Favorited = *u.Favorited
	}
	if u.FavoritesCount != nil {
		merged.FavoritesCount = *u.FavoritesCount
	}

	return &merged
}

// --------------------------------------------------------------------------
// Query Results
// --------------------------------------------------------------------------

// Page is one page of a listing query. Total is the number of matching
// records in the whole corpus (or, for author-filtered listings, the number
// of records by that author), not the page length.
type Page struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
}
