package serializer

import (
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/aKV/lib/article"
)

// testSerializers returns all serializer implementations under test
func testSerializers() map[string]IArticleSerializer {
	return map[string]IArticleSerializer{
		"json": NewJSONSerializer(),
		"gob":  NewGOBSerializer(),
	}
}

func testArticle() *article.Article {
	now := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	return &article.Article{
		Slug:           "abc123def456",
		Title:          "Hello",
		Description:    "greeting",
		Body:           "Hello, world!",
		TagList:        []string{"intro", "demo"},
		CreatedAt:      now,
		UpdatedAt:      now.Add(time.Hour),
		Favorited:      true,
		FavoritesCount: 3,
		Author: article.Author{
			Name:    "Jane Doe",
			Email:   "jane@example.com",
			Picture: "https://example.com/jane.png",
			Sub:     "auth0|jane",
		},
	}
}

func TestArticleRoundTrip(t *testing.T) {
	for name, s := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			want := testArticle()

			data, err := s.MarshalArticle(want)
			if err != nil {
				t.Fatalf("MarshalArticle failed: %v", err)
			}

			got, err := s.UnmarshalArticle(data)
			if err != nil {
				t.Fatalf("UnmarshalArticle failed: %v", err)
			}

			if got.Slug != want.Slug || got.Title != want.Title || got.Body != want.Body {
				t.Errorf("record fields mismatch: got %+v, want %+v", got, want)
			}
			if !got.UpdatedAt.Equal(want.UpdatedAt) {
				t.Errorf("UpdatedAt mismatch: got %v, want %v", got.UpdatedAt, want.UpdatedAt)
			}
			if got.Score() != want.Score() {
				t.Errorf("Score mismatch after round trip: got %d, want %d", got.Score(), want.Score())
			}
			if got.Author.Email != want.Author.Email {
				t.Errorf("Author.Email mismatch: got %q, want %q", got.Author.Email, want.Author.Email)
			}
			if len(got.TagList) != len(want.TagList) {
				t.Errorf("TagList length mismatch: got %d, want %d", len(got.TagList), len(want.TagList))
			}
		})
	}
}

func TestUpdateRoundTripPreservesAbsentFields(t *testing.T) {
	title := "New Title"
	fav := true

	for name, s := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			want := &article.UpdateArticle{
				Title:     &title,
				Favorited: &fav,
			}

			data, err := s.MarshalUpdate(want)
			if err != nil {
				t.Fatalf("MarshalUpdate failed: %v", err)
			}

			got, err := s.UnmarshalUpdate(data)
			if err != nil {
				t.Fatalf("UnmarshalUpdate failed: %v", err)
			}

			if got.Title == nil || *got.Title != title {
				t.Errorf("Title not preserved: got %v", got.Title)
			}
			if got.Favorited == nil || *got.Favorited != fav {
				t.Errorf("Favorited not preserved: got %v", got.Favorited)
			}
			// absent fields must stay absent, otherwise a merge would clobber them
			if got.Body != nil {
				t.Errorf("Body should be nil, got %q", *got.Body)
			}
			if got.TagList != nil {
				t.Errorf("TagList should be nil, got %v", *got.TagList)
			}
		})
	}
}

func TestPageRoundTrip(t *testing.T) {
	for name, s := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			want := &article.Page{
				Articles: []*article.Article{testArticle()},
				Total:    42,
				Page:     2,
				PageSize: 10,
			}

			data, err := s.MarshalPage(want)
			if err != nil {
				t.Fatalf("MarshalPage failed: %v", err)
			}

			got, err := s.UnmarshalPage(data)
			if err != nil {
				t.Fatalf("UnmarshalPage failed: %v", err)
			}

			if got.Total != want.Total || got.Page != want.Page || got.PageSize != want.PageSize {
				t.Errorf("page metadata mismatch: got %+v, want %+v", got, want)
			}
			if len(got.Articles) != 1 || got.Articles[0].Slug != want.Articles[0].Slug {
				t.Errorf("page articles mismatch: got %+v", got.Articles)
			}
		})
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	for name, s := range testSerializers() {
		t.Run(name, func(t *testing.T) {
			if _, err := s.UnmarshalArticle([]byte("not a valid payload")); err == nil {
				t.Error("UnmarshalArticle should fail on garbage input")
			}
		})
	}
}

func TestJSONFieldNames(t *testing.T) {
	s := NewJSONSerializer()

	data, err := s.MarshalArticle(testArticle())
	if err != nil {
		t.Fatalf("MarshalArticle failed: %v", err)
	}

	// the stored document must keep the camelCase field names
	for _, field := range []string{
		`"slug"`, `"title"`, `"description"`, `"body"`, `"tagList"`,
		`"createdAt"`, `"updatedAt"`, `"favorited"`, `"favoritesCount"`,
		`"author"`, `"email"`,
	} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized article missing field %s: %s", field, data)
		}
	}
}
