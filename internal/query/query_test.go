package query

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"podcast-catalog/internal/models"
)

func episodes(durations ...int) []models.Episode {
	out := make([]models.Episode, len(durations))
	for i, d := range durations {
		out[i] = models.Episode{ID: fmt.Sprintf("ep-%d", i+1), Title: fmt.Sprintf("Episode %d", i+1), DurationSeconds: d}
	}
	return out
}

func testCatalog() []models.Podcast {
	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return []models.Podcast{
		{
			ID:          "sql-basics",
			Title:       "SQL Basics",
			Description: "Abfragen, Joins und Indizes",
			Author:      "Anna Schmidt",
			Category:    []string{"Datenbank", "SQL"},
			PublishedAt: published,
			Episodes:    episodes(1800, 2400),
		},
		{
			ID:          "csharp-intro",
			Title:       "C# Intro",
			Description: "Objektorientierte Programmierung mit C#",
			Author:      "Ben Weber",
			Category:    []string{"Programmierung", "C#"},
			PublishedAt: published,
			Episodes:    episodes(3600),
		},
		{
			ID:          "netzwerk",
			Title:       "Netzwerk Grundlagen",
			Description: "TCP/IP, Routing und DNS",
			Author:      "Clara Braun",
			Category:    []string{"Netzwerk", "IT", "Grundlagen"},
			PublishedAt: published,
			Episodes:    episodes(900, 900, 1200),
		},
		{
			ID:          "bwl",
			Title:       "BWL kompakt",
			Description: "Kostenrechnung für IT-Berufe",
			Author:      "Anna Schmidt",
			Category:    []string{"BWL"},
			PublishedAt: published,
		},
	}
}

func ids(podcasts []models.Podcast) []string {
	out := make([]string, 0, len(podcasts))
	for _, p := range podcasts {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterIdentity(t *testing.T) {
	catalog := testCatalog()
	got := Filter(catalog, "", NewCategorySet())
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("expected unfiltered catalog, got %v", ids(got))
	}

	got = Filter(catalog, "", nil)
	if !reflect.DeepEqual(got, catalog) {
		t.Fatalf("expected nil selection to match everything, got %v", ids(got))
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	catalog := testCatalog()
	selected := NewCategorySet("IT", "Datenbank")
	first := Filter(catalog, "a", selected)
	second := Filter(catalog, "a", selected)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %v and %v", ids(first), ids(second))
	}
}

func TestFilterCategoryAndTextOr(t *testing.T) {
	catalog := []models.Podcast{
		{ID: "1", Title: "SQL Basics", Category: []string{"Datenbank"}},
		{ID: "2", Title: "C# Intro", Category: []string{"Programmierung"}},
	}

	if got := Filter(catalog, "sql", NewCategorySet("Programmierung")); len(got) != 0 {
		t.Fatalf("expected no match, got %v", ids(got))
	}

	got := Filter(catalog, "sql", NewCategorySet("Datenbank"))
	if !reflect.DeepEqual(ids(got), []string{"1"}) {
		t.Fatalf("expected first item only, got %v", ids(got))
	}
}

func TestFilterMatchesEveryField(t *testing.T) {
	catalog := testCatalog()
	cases := []struct {
		query string
		want  []string
	}{
		{"basics", []string{"sql-basics"}},
		{"routing", []string{"netzwerk"}},
		{"anna", []string{"sql-basics", "bwl"}},
		{"grundlagen", []string{"netzwerk"}},
		{"c#", []string{"csharp-intro"}},
		{"it", []string{"csharp-intro", "netzwerk", "bwl"}},
		{"no such thing", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			got := ids(Filter(catalog, tc.query, nil))
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("query %q: expected %v, got %v", tc.query, tc.want, got)
			}
		})
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	catalog := testCatalog()
	upper := Filter(catalog, "SQL", nil)
	lower := Filter(catalog, "sql", nil)
	if !reflect.DeepEqual(upper, lower) {
		t.Fatalf("expected case-insensitive match, got %v and %v", ids(upper), ids(lower))
	}
	if len(upper) == 0 {
		t.Fatalf("expected matches for sql")
	}
}

func TestFilterCategorySelectionIsExactAndPreservesOrder(t *testing.T) {
	catalog := testCatalog()
	got := ids(Filter(catalog, "", NewCategorySet("BWL", "SQL")))
	if !reflect.DeepEqual(got, []string{"sql-basics", "bwl"}) {
		t.Fatalf("expected catalog order, got %v", got)
	}

	if got := Filter(catalog, "", NewCategorySet("sql")); len(got) != 0 {
		t.Fatalf("expected category labels to match exactly, got %v", ids(got))
	}
}

func TestFilterDoesNotMutateCatalog(t *testing.T) {
	catalog := testCatalog()
	before := testCatalog()
	result := Filter(catalog, "", nil)
	result[0].Title = "changed"
	if !reflect.DeepEqual(catalog, before) {
		t.Fatalf("filter must not reorder or alter the catalog")
	}
	if len(Filter(catalog, "zzz", nil)) != 0 {
		t.Fatalf("expected empty result")
	}
}

func TestFilterEmptyCatalog(t *testing.T) {
	got := Filter(nil, "x", NewCategorySet("y"))
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestFilterStateApply(t *testing.T) {
	catalog := testCatalog()
	state := FilterState{Query: "grund", Categories: NewCategorySet("IT")}
	if state.IsEmpty() {
		t.Fatalf("expected non-empty state")
	}
	if got := ids(state.Apply(catalog)); !reflect.DeepEqual(got, []string{"netzwerk"}) {
		t.Fatalf("unexpected result %v", got)
	}
	if !(FilterState{}).IsEmpty() {
		t.Fatalf("expected zero state to be empty")
	}
}

func TestCategorySet(t *testing.T) {
	set := NewCategorySet("b", "a", "", "b")
	if set.Len() != 2 {
		t.Fatalf("expected 2 labels, got %d", set.Len())
	}
	if !reflect.DeepEqual(set.Labels(), []string{"a", "b"}) {
		t.Fatalf("unexpected labels %v", set.Labels())
	}
	if !set.Intersects([]string{"x", "a"}) || set.Intersects([]string{"x"}) {
		t.Fatalf("unexpected intersection result")
	}
}

func TestFindByID(t *testing.T) {
	catalog := testCatalog()
	p, ok := FindByID(catalog, "bwl")
	if !ok || p.Title != "BWL kompakt" {
		t.Fatalf("expected bwl podcast, got %+v %t", p, ok)
	}
	if _, ok := FindByID(catalog, "missing"); ok {
		t.Fatalf("expected missing id to be reported")
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"SQL":           "sql",
		"Grundlagen":    "grundlagen",
		"ÜBERSICHT":     "übersicht",
		"C# Intro":      "c# intro",
		"already lower": "already lower",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
