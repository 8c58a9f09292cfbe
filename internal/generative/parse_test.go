// Kizuna - Manga, Manhwa and Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kizuna

package generative

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/kizuna/internal/recommend"
)

func TestParseRecommendations(t *testing.T) {
	tests := []struct {
		name   string
		output string
		media  recommend.MediaType
		limit  int
		want   []string
	}{
		{
			name:   "plain array",
			output: `[{"title": "Vagabond", "creator": "Takehiko Inoue"}, {"title": "Vinland Saga"}]`,
			media:  recommend.MediaManga,
			limit:  5,
			want:   []string{"Vagabond", "Vinland Saga"},
		},
		{
			name:   "fenced with prose",
			output: "Sure! Here you go:\n```json\n[{\"title\": \"Tower of God\"}]\n```\nEnjoy!",
			media:  recommend.MediaManhwa,
			limit:  5,
			want:   []string{"Tower of God"},
		},
		{
			name:   "wrapped object",
			output: `{"recommendations": [{"title": "Monster"}, {"title": "Pluto"}, {"title": "20th Century Boys"}]}`,
			media:  recommend.MediaManga,
			limit:  2,
			want:   []string{"Monster", "Pluto"},
		},
		{
			name:   "drops untitled and duplicates",
			output: `[{"title": ""}, {"title": "Mushishi"}, {"title": "mushishi"}, {"description": "no title"}]`,
			media:  recommend.MediaAnime,
			limit:  5,
			want:   []string{"Mushishi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := parseRecommendations(tt.output, tt.media, tt.limit)
			if err != nil {
				t.Fatalf("parseRecommendations() error = %v", err)
			}
			got := make([]string, len(recs))
			for i, r := range recs {
				got[i] = r.Title
				if r.Source != recommend.SourceGenerative {
					t.Errorf("Source = %s, want ai", r.Source)
				}
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("titles = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRecommendations_Invalid(t *testing.T) {
	for _, output := range []string{
		"I cannot help with that.",
		`[{"title": "broken"`,
		`[]`,
		`{"something": "else"}`,
	} {
		if _, err := parseRecommendations(output, recommend.MediaManga, 5); !errors.Is(err, ErrInvalidOutput) {
			t.Errorf("parseRecommendations(%q) error = %v, want ErrInvalidOutput", output, err)
		}
	}
}

func TestParseRecommendations_LenientFields(t *testing.T) {
	output := `[{
		"title": " Samurai Champloo ",
		"studio": "Manglobe",
		"genres": "Action, Adventure , ",
		"episodes": "26",
		"chapters": 999
	}, {
		"title": "Mob Psycho 100",
		"genres": ["Action", "Comedy"],
		"episodes": 25.0
	}]`

	recs, err := parseRecommendations(output, recommend.MediaAnime, 5)
	if err != nil {
		t.Fatalf("parseRecommendations() error = %v", err)
	}

	first := recs[0]
	if first.Title != "Samurai Champloo" || first.Creator != "Manglobe" {
		t.Errorf("first = %+v", first)
	}
	if !reflect.DeepEqual(first.Genres, []string{"Action", "Adventure"}) {
		t.Errorf("Genres = %v", first.Genres)
	}
	if first.Episodes != 26 || first.Chapters != 0 {
		t.Errorf("Episodes = %d, Chapters = %d; anime records carry episodes only", first.Episodes, first.Chapters)
	}
	if first.Type != "anime" {
		t.Errorf("Type = %q, want media type default", first.Type)
	}

	second := recs[1]
	if second.Episodes != 25 || second.Creator != "Unknown" {
		t.Errorf("second = %+v", second)
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(recommend.Request{
		Titles:      []string{"Solo Leveling", "Omniscient Reader"},
		Preferences: "overpowered protagonist",
		Genres:      []string{"Action", "Fantasy"},
		Exclude:     []string{"Tower of God"},
		MediaType:   recommend.MediaManhwa,
	}, 4)

	for _, want := range []string{
		"Recommend 4 manhwa titles",
		"Solo Leveling; Omniscient Reader",
		"overpowered protagonist",
		"Action, Fantasy",
		"Tower of God",
		"Korean manhwa",
		`"chapters"`,
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}

	anime := buildPrompt(recommend.Request{Titles: []string{"Cowboy Bebop"}, MediaType: recommend.MediaAnime}, 3)
	if !strings.Contains(anime, `"episodes"`) || !strings.Contains(anime, "the studio") {
		t.Errorf("anime prompt should ask for studio and episodes:\n%s", anime)
	}
}
