package query

import (
	"reflect"
	"testing"
)

func TestStatsSumsCatalog(t *testing.T) {
	got := Stats(testCatalog())
	want := Summary{
		Count:                4,
		EpisodeCount:         6,
		TotalDurationSeconds: 1800 + 2400 + 3600 + 900 + 900 + 1200,
		CategoryCount:        8,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got.Hours() != 3 {
		t.Fatalf("expected 3 hours, got %d", got.Hours())
	}
}

func TestStatsEmpty(t *testing.T) {
	if got := Stats(nil); got != (Summary{}) {
		t.Fatalf("expected zero stats, got %+v", got)
	}
}

func TestStatsAdditivity(t *testing.T) {
	catalog := testCatalog()
	for split := 0; split <= len(catalog); split++ {
		a, b := catalog[:split], catalog[split:]
		whole := Stats(catalog)
		left, right := Stats(a), Stats(b)
		if left.EpisodeCount+right.EpisodeCount != whole.EpisodeCount {
			t.Fatalf("split %d: episode counts not additive", split)
		}
		if left.TotalDurationSeconds+right.TotalDurationSeconds != whole.TotalDurationSeconds {
			t.Fatalf("split %d: durations not additive", split)
		}
		if left.Count+right.Count != whole.Count {
			t.Fatalf("split %d: counts not additive", split)
		}
	}
}

func TestSummaryHoursRoundsAtDisplay(t *testing.T) {
	cases := []struct {
		seconds int
		want    int
	}{
		{0, 0},
		{1799, 0},
		{1800, 1},
		{5399, 1},
		{5400, 2},
	}
	for _, tc := range cases {
		if got := (Summary{TotalDurationSeconds: tc.seconds}).Hours(); got != tc.want {
			t.Fatalf("%d seconds: expected %d hours, got %d", tc.seconds, tc.want, got)
		}
	}
}

func TestCategoryStatsMatchesFilteredStats(t *testing.T) {
	catalog := testCatalog()
	for _, category := range append(Categories(catalog), "Unbekannt") {
		got := CategoryStats(catalog, category)
		filtered := Stats(Filter(catalog, "", NewCategorySet(category)))
		if got.PodcastCount != filtered.Count || got.EpisodeCount != filtered.EpisodeCount {
			t.Fatalf("%s: category stats %+v disagree with filtered stats %+v", category, got, filtered)
		}
	}
}

func TestAllCategoryStats(t *testing.T) {
	got := AllCategoryStats(testCatalog(), []string{"IT", "Datenbank", "Leer"})
	want := []CategorySummary{
		{Category: "IT", PodcastCount: 1, EpisodeCount: 3},
		{Category: "Datenbank", PodcastCount: 1, EpisodeCount: 2},
		{Category: "Leer"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCategoriesFirstOccurrence(t *testing.T) {
	got := Categories(testCatalog())
	want := []string{"Datenbank", "SQL", "Programmierung", "C#", "Netzwerk", "IT", "Grundlagen", "BWL"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := Categories(nil); got == nil || len(got) != 0 {
		t.Fatalf("expected empty categories for empty catalog")
	}
}
