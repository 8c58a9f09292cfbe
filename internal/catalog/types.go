// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package catalog

import (
	"context"
	"fmt"
)

// Kind selects the Jikan resource family.
type Kind string

const (
	KindManga Kind = "manga"
	KindAnime Kind = "anime"
)

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	return k == KindManga || k == KindAnime
}

// Entry is a normalized catalog title.
type Entry struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	EnglishTitle string   `json:"english_title,omitempty"`
	Creators     []string `json:"creators,omitempty"`
	Type         string   `json:"type,omitempty"`
	Genres       []string `json:"genres,omitempty"`
	Synopsis     string   `json:"synopsis,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	URL          string   `json:"url,omitempty"`
	Score        float64  `json:"score,omitempty"`
	Chapters     int      `json:"chapters,omitempty"`
	Episodes     int      `json:"episodes,omitempty"`
}

// DisplayTitle prefers the English title when Jikan has one.
func (e *Entry) DisplayTitle() string {
	if e.EnglishTitle != "" {
		return e.EnglishTitle
	}
	return e.Title
}

// Reference is a crowd-sourced recommendation pointing at another title.
type Reference struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Votes    int    `json:"votes"`
}

// Genre is a catalog genre, theme or demographic.
type Genre struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SearchQuery parameters. Zero values are omitted from the request.
type SearchQuery struct {
	Query    string
	Type     string // manga: manga, manhwa, manhua, novel, ...; anime: tv, movie, ...
	GenreIDs []int
	OrderBy  string // score, popularity, members, ...
	Sort     string // asc or desc
	Limit    int
}

// TopQuery parameters for the top-ranked list.
type TopQuery struct {
	Type  string
	Limit int
}

// ClientInterface is implemented by Client, CircuitBreakerClient and
// QueuedClient.
type ClientInterface interface {
	Search(ctx context.Context, kind Kind, query SearchQuery) ([]Entry, error)
	Get(ctx context.Context, kind Kind, id int) (*Entry, error)
	Recommendations(ctx context.Context, kind Kind, id int) ([]Reference, error)
	Top(ctx context.Context, kind Kind, query TopQuery) ([]Entry, error)
	Genres(ctx context.Context, kind Kind) ([]Genre, error)
	Ping(ctx context.Context) error
}

// Jikan wire format

type jikanImages struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type jikanNamed struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

type jikanEntry struct {
	MalID        int          `json:"mal_id"`
	URL          string       `json:"url"`
	Images       jikanImages  `json:"images"`
	Title        string       `json:"title"`
	TitleEnglish *string      `json:"title_english"`
	Type         *string      `json:"type"`
	Chapters     *int         `json:"chapters"`
	Episodes     *int         `json:"episodes"`
	Score        *float64     `json:"score"`
	Synopsis     *string      `json:"synopsis"`
	Authors      []jikanNamed `json:"authors"`
	Studios      []jikanNamed `json:"studios"`
	Genres       []jikanNamed `json:"genres"`
	Themes       []jikanNamed `json:"themes"`
	Demographics []jikanNamed `json:"demographics"`
}

type jikanRecommendation struct {
	Entry struct {
		MalID  int         `json:"mal_id"`
		URL    string      `json:"url"`
		Images jikanImages `json:"images"`
		Title  string      `json:"title"`
	} `json:"entry"`
	Votes int `json:"votes"`
}

type jikanGenre struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type jikanList[T any] struct {
	Data []T `json:"data"`
}

type jikanItem[T any] struct {
	Data T `json:"data"`
}

func (j *jikanEntry) normalize() Entry {
	e := Entry{
		ID:           j.MalID,
		Title:        j.Title,
		EnglishTitle: deref(j.TitleEnglish),
		Type:         deref(j.Type),
		Synopsis:     deref(j.Synopsis),
		ImageURL:     j.Images.best(),
		URL:          j.URL,
		Score:        deref(j.Score),
		Chapters:     deref(j.Chapters),
		Episodes:     deref(j.Episodes),
	}
	for _, a := range j.Authors {
		e.Creators = append(e.Creators, a.Name)
	}
	for _, s := range j.Studios {
		e.Creators = append(e.Creators, s.Name)
	}
	for _, group := range [][]jikanNamed{j.Genres, j.Themes, j.Demographics} {
		for _, g := range group {
			e.Genres = append(e.Genres, g.Name)
		}
	}
	return e
}

func (i jikanImages) best() string {
	if i.JPG.LargeImageURL != "" {
		return i.JPG.LargeImageURL
	}
	return i.JPG.ImageURL
}

func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}
