package astore

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/aKV/lib/article"
	"github.com/ValentinKolb/aKV/lib/article/serializer"
	"github.com/ValentinKolb/aKV/lib/db"
	"github.com/ValentinKolb/aKV/lib/db/engines/birch"
	"github.com/ValentinKolb/aKV/lib/index/btreeindex"
	"github.com/ValentinKolb/aKV/lib/store"
)

func newTestStore() IPersistentArticleStore {
	return NewArticleStore(
		func() db.KVDB { return birch.NewBirchDB(nil) },
		btreeindex.NewBTreeIndex,
		serializer.NewJSONSerializer(),
	)
}

func newPayload(title, email string) *article.NewArticle {
	return &article.NewArticle{
		Title:       title,
		Description: "description of " + title,
		Body:        "body of " + title,
		TagList:     []string{"test"},
		Author:      article.Author{Name: "Author of " + title, Email: email},
	}
}

// createN creates n articles with distinct scores and returns them in
// creation order. The sleep keeps the millisecond scores distinct so
// ordering assertions are deterministic.
func createN(t *testing.T, s store.IArticleStore, n int, email string) []*article.Article {
	t.Helper()

	created := make([]*article.Article, n)
	for i := 0; i < n; i++ {
		a, err := s.Create(newPayload(fmt.Sprintf("Article %d", i), email))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		created[i] = a
		time.Sleep(2 * time.Millisecond)
	}
	return created
}

func retCode(t *testing.T, err error) store.RetCode {
	t.Helper()

	var serr *store.Error
	if !errors.As(err, &serr) {
		t.Fatalf("expected *store.Error, got %T: %v", err, err)
	}
	return serr.Code
}

// --------------------------------------------------------------------------
// CRUD
// --------------------------------------------------------------------------

func TestCreateAndGetRoundTrip(t *testing.T) {
	s := newTestStore()

	created, err := s.Create(newPayload("Hello", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.Slug == "" {
		t.Error("Create must assign a slug")
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("fresh article must have CreatedAt == UpdatedAt, got %v / %v", created.CreatedAt, created.UpdatedAt)
	}
	if created.Favorited || created.FavoritesCount != 0 {
		t.Errorf("fresh article must be unfavorited with count 0, got %v / %d", created.Favorited, created.FavoritesCount)
	}

	got, err := s.GetBySlug(created.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Title != "Hello" || got.Author.Email != "jane@example.com" {
		t.Errorf("stored article mismatch: %+v", got)
	}
	if got.TagList == nil {
		t.Error("TagList must never be nil on a stored record")
	}
}

func TestCreateValidation(t *testing.T) {
	s := newTestStore()

	cases := map[string]*article.NewArticle{
		"NilPayload":   nil,
		"EmptyTitle":   {Description: "d", Body: "b", Author: article.Author{Email: "a@b.c"}},
		"EmptyBody":    {Title: "t", Description: "d", Author: article.Author{Email: "a@b.c"}},
		"MissingEmail": {Title: "t", Description: "d", Body: "b"},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(payload)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if code := retCode(t, err); code != store.RetCValidation {
				t.Errorf("expected RetCValidation, got %v", code)
			}
		})
	}

	// nothing may have been stored
	page, err := s.List(1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("rejected creates must not store records, Total=%d", page.Total)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	s := newTestStore()

	_, err := s.GetBySlug("missing")
	if err == nil {
		t.Fatal("expected error for missing slug")
	}
	if code := retCode(t, err); code != store.RetCNotFound {
		t.Errorf("expected RetCNotFound, got %v", code)
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	s := newTestStore()

	created, err := s.Create(newPayload("Original", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	time.Sleep(2 * time.Millisecond)

	title := "Changed"
	updated, err := s.Update(created.Slug, &article.UpdateArticle{Title: &title})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Title != "Changed" {
		t.Errorf("Title not updated: %q", updated.Title)
	}
	if updated.Body != created.Body || updated.Description != created.Description {
		t.Error("absent fields must keep their stored values")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must never change on update")
	}
	if updated.Author.Email != created.Author.Email {
		t.Error("Author must never change on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("UpdatedAt must be refreshed on update")
	}

	// even an empty update bumps UpdatedAt
	time.Sleep(2 * time.Millisecond)
	bumped, err := s.Update(created.Slug, &article.UpdateArticle{})
	if err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}
	if !bumped.UpdatedAt.After(updated.UpdatedAt) {
		t.Error("empty update must still refresh UpdatedAt")
	}
}

func TestUpdateMissingSlug(t *testing.T) {
	s := newTestStore()

	title := "x"
	_, err := s.Update("missing", &article.UpdateArticle{Title: &title})
	if err == nil {
		t.Fatal("expected error for missing slug")
	}
	if code := retCode(t, err); code != store.RetCNotFound {
		t.Errorf("expected RetCNotFound, got %v", code)
	}
}

func TestDeleteRemovesRecordAndListing(t *testing.T) {
	s := newTestStore()

	created := createN(t, s, 3, "jane@example.com")
	victim := created[1]

	if err := s.Delete(victim.Slug); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// record gone
	if _, err := s.GetBySlug(victim.Slug); err == nil {
		t.Error("deleted article must not be fetchable")
	}

	// listing gone
	page, err := s.List(1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("expected Total 2 after delete, got %d", page.Total)
	}
	for _, a := range page.Articles {
		if a.Slug == victim.Slug {
			t.Error("deleted article must not appear in listings")
		}
	}

	// idempotent
	if err := s.Delete(victim.Slug); err != nil {
		t.Errorf("repeated Delete must be a no-op, got %v", err)
	}
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("Delete of an absent slug must be a no-op, got %v", err)
	}
}

func TestDeleteEmptySlug(t *testing.T) {
	s := newTestStore()

	err := s.Delete("")
	if err == nil {
		t.Fatal("expected validation error for empty slug")
	}
	if code := retCode(t, err); code != store.RetCValidation {
		t.Errorf("expected RetCValidation, got %v", code)
	}
}

// --------------------------------------------------------------------------
// Listing and Pagination
// --------------------------------------------------------------------------

func TestListOrderedByRecency(t *testing.T) {
	s := newTestStore()

	created := createN(t, s, 5, "jane@example.com")

	page, err := s.List(1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(page.Articles) != 5 || page.Total != 5 {
		t.Fatalf("expected 5 articles, got %d (Total %d)", len(page.Articles), page.Total)
	}

	// most recently created first
	for i, a := range page.Articles {
		want := created[len(created)-1-i].Slug
		if a.Slug != want {
			t.Errorf("rank %d: expected slug %s, got %s", i, want, a.Slug)
		}
	}

	// an update moves the record to the front
	time.Sleep(2 * time.Millisecond)
	title := "Bumped"
	if _, err := s.Update(created[0].Slug, &article.UpdateArticle{Title: &title}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	page, err = s.List(1, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Articles) != 1 || page.Articles[0].Slug != created[0].Slug {
		t.Errorf("updated article must rank first, got %+v", page.Articles)
	}
}

func TestListPaginationWindows(t *testing.T) {
	s := newTestStore()
	createN(t, s, 7, "jane@example.com")

	tests := []struct {
		name     string
		page     int
		pageSize int
		wantLen  int
	}{
		{"FirstPage", 1, 3, 3},
		{"MiddlePage", 2, 3, 3},
		{"PartialLastPage", 3, 3, 1},
		{"BeyondEnd", 4, 3, 0},
		{"AllInOne", 1, 100, 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := s.List(tc.page, tc.pageSize)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(page.Articles) != tc.wantLen {
				t.Errorf("expected %d articles, got %d", tc.wantLen, len(page.Articles))
			}
			if page.Total != 7 {
				t.Errorf("Total must always be 7, got %d", page.Total)
			}
			if page.Page != tc.page || page.PageSize != tc.pageSize {
				t.Errorf("page metadata must echo the request, got %d/%d", page.Page, page.PageSize)
			}
		})
	}

	t.Run("InvalidPaging", func(t *testing.T) {
		for _, args := range [][2]int{{0, 10}, {-1, 10}, {1, 0}, {1, -5}} {
			if _, err := s.List(args[0], args[1]); err == nil {
				t.Errorf("List(%d, %d) must fail validation", args[0], args[1])
			}
		}
	})
}

func TestListSkipsCorruptRecord(t *testing.T) {
	s := newTestStore()
	created := createN(t, s, 2, "jane@example.com")

	// plant an indexed record that cannot be decoded, ranked newest
	impl := s.(*storeImpl)
	impl.db.Set(keyForSlug("corrupt"), []byte("not a stored article"), impl.incAndGetIndex())
	impl.idx.Upsert("corrupt", time.Now().UTC().UnixMilli()+10)

	page, err := s.List(1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// the bad slot is dropped, the remaining articles keep their order
	if len(page.Articles) != 2 {
		t.Fatalf("expected 2 decodable articles, got %d", len(page.Articles))
	}
	if page.Articles[0].Slug != created[1].Slug || page.Articles[1].Slug != created[0].Slug {
		t.Errorf("remaining articles out of order: %s, %s",
			page.Articles[0].Slug, page.Articles[1].Slug)
	}
	for _, a := range page.Articles {
		if a.Slug == "corrupt" {
			t.Error("corrupt record must not appear in the listing")
		}
	}

	// Total reflects the index, the corrupt entry included
	if page.Total != 3 {
		t.Errorf("expected Total 3, got %d", page.Total)
	}
}

func TestListByAuthorFiltersAndCounts(t *testing.T) {
	s := newTestStore()

	// interleave two authors
	var janes []*article.Article
	for i := 0; i < 6; i++ {
		email := "jane@example.com"
		if i%2 == 1 {
			email = "john@example.com"
		}
		a, err := s.Create(newPayload(fmt.Sprintf("Article %d", i), email))
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if email == "jane@example.com" {
			janes = append(janes, a)
		}
		time.Sleep(2 * time.Millisecond)
	}

	page, err := s.ListByAuthor("jane@example.com", 1, 2)
	if err != nil {
		t.Fatalf("ListByAuthor failed: %v", err)
	}

	// Total counts only the author's articles, not the corpus
	if page.Total != 3 {
		t.Errorf("expected Total 3, got %d", page.Total)
	}
	if len(page.Articles) != 2 {
		t.Fatalf("expected 2 articles on page 1, got %d", len(page.Articles))
	}

	// still ordered by recency within the filter
	if page.Articles[0].Slug != janes[2].Slug || page.Articles[1].Slug != janes[1].Slug {
		t.Errorf("author listing out of order: %s, %s", page.Articles[0].Slug, page.Articles[1].Slug)
	}
	for _, a := range page.Articles {
		if a.Author.Email != "jane@example.com" {
			t.Errorf("foreign author leaked into filtered listing: %s", a.Author.Email)
		}
	}

	// unknown author yields an empty page, not an error
	page, err = s.ListByAuthor("nobody@example.com", 1, 10)
	if err != nil {
		t.Fatalf("ListByAuthor failed: %v", err)
	}
	if page.Total != 0 || len(page.Articles) != 0 {
		t.Errorf("expected empty page for unknown author, got %+v", page)
	}

	// empty email is a validation error
	if _, err := s.ListByAuthor("", 1, 10); err == nil {
		t.Error("ListByAuthor with empty email must fail validation")
	}
}

// --------------------------------------------------------------------------
// Favorite Semantics
// --------------------------------------------------------------------------

func TestFavoriteCounterTransitions(t *testing.T) {
	s := newTestStore()

	created, err := s.Create(newPayload("Fav", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// false -> true increments
	a, err := s.Favorite(created.Slug, true)
	if err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	if !a.Favorited || a.FavoritesCount != 1 {
		t.Errorf("expected favorited with count 1, got %v/%d", a.Favorited, a.FavoritesCount)
	}

	// true -> true is a counter no-op
	a, err = s.Favorite(created.Slug, true)
	if err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	if a.FavoritesCount != 1 {
		t.Errorf("repeated favorite must not change the counter, got %d", a.FavoritesCount)
	}

	// true -> false decrements
	a, err = s.Favorite(created.Slug, false)
	if err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	if a.Favorited || a.FavoritesCount != 0 {
		t.Errorf("expected unfavorited with count 0, got %v/%d", a.Favorited, a.FavoritesCount)
	}

	// false -> false never drops below zero
	a, err = s.Favorite(created.Slug, false)
	if err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	if a.FavoritesCount != 0 {
		t.Errorf("counter must never go negative, got %d", a.FavoritesCount)
	}
}

func TestFavoriteNoOpStillBumpsRecency(t *testing.T) {
	s := newTestStore()
	created := createN(t, s, 2, "jane@example.com")

	// created[1] is currently the most recent; re-favoriting created[0]
	// with its current flag value still moves it to the front
	a, err := s.Favorite(created[0].Slug, false)
	if err != nil {
		t.Fatalf("Favorite failed: %v", err)
	}
	if a.FavoritesCount != 0 {
		t.Errorf("no-op favorite must not change the counter, got %d", a.FavoritesCount)
	}

	page, err := s.List(1, 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Articles[0].Slug != created[0].Slug {
		t.Error("no-op favorite must still refresh the listing rank")
	}
}

// TestConcurrentFavoriteLostUpdates documents that favorite transitions use
// unlocked read-modify-write: concurrent favorites of the same article may
// observe the same prior state, so the final counter lands anywhere between
// one and the number of writers.
func TestConcurrentFavoriteLostUpdates(t *testing.T) {
	s := newTestStore()

	created, err := s.Create(newPayload("Contested", "jane@example.com"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.Favorite(created.Slug, true); err != nil {
				t.Errorf("Favorite failed: %v", err)
			}
		}()
	}
	wg.Wait()

	a, err := s.GetBySlug(created.Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if !a.Favorited {
		t.Error("article must end up favorited")
	}
	if a.FavoritesCount < 1 || a.FavoritesCount > writers {
		t.Errorf("counter out of possible range [1, %d]: %d", writers, a.FavoritesCount)
	}
}

// --------------------------------------------------------------------------
// Persistence
// --------------------------------------------------------------------------

func TestSaveLoadRebuildsIndex(t *testing.T) {
	s := newTestStore()
	created := createN(t, s, 5, "jane@example.com")

	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := newTestStore()
	if err := restored.Load(&buf); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	page, err := restored.List(1, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected 5 articles after Load, got %d", page.Total)
	}
	for i, a := range page.Articles {
		want := created[len(created)-1-i].Slug
		if a.Slug != want {
			t.Errorf("rank %d after Load: expected slug %s, got %s", i, want, a.Slug)
		}
	}

	// mutations after Load must not be treated as stale writes
	time.Sleep(2 * time.Millisecond)
	title := "Post Load"
	if _, err := restored.Update(created[0].Slug, &article.UpdateArticle{Title: &title}); err != nil {
		t.Fatalf("Update after Load failed: %v", err)
	}
	got, err := restored.GetBySlug(created[0].Slug)
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Title != "Post Load" {
		t.Errorf("write after Load was lost, title %q", got.Title)
	}
}
