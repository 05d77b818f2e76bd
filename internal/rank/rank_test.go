package rank

import (
	"testing"
	"time"

	"github.com/rathinamurthy/ai-daily-brief/internal/scraper"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func recentPost(id string, likes int) scraper.Post {
	return scraper.Post{
		ID:        id,
		Likes:     likes,
		CreatedAt: now.Add(-1 * time.Hour),
	}
}

func ids(posts []scraper.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.ID
	}
	return out
}

func assertIDs(t *testing.T, got []scraper.Post, want ...string) {
	t.Helper()
	gotIDs := ids(got)
	if len(gotIDs) != len(want) {
		t.Fatalf("Expected ids %v, got %v", want, gotIDs)
	}
	for i := range want {
		if gotIDs[i] != want[i] {
			t.Fatalf("Expected ids %v, got %v", want, gotIDs)
		}
	}
}

func TestSelectDropsRepostsAndSortsByScore(t *testing.T) {
	p1 := recentPost("p1", 10)
	p2 := recentPost("p2", 20)
	p2.IsRepost = true
	p3 := recentPost("p3", 5)

	got := Select([]scraper.Post{p1, p2, p3}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 5,
		Now:      now,
	})

	assertIDs(t, got, "p1", "p3")
}

func TestSelectTruncatesToMaxPosts(t *testing.T) {
	p1 := recentPost("p1", 10)
	p2 := recentPost("p2", 20)
	p2.IsRepost = true
	p3 := recentPost("p3", 5)

	got := Select([]scraper.Post{p1, p2, p3}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 1,
		Now:      now,
	})

	assertIDs(t, got, "p1")
}

func TestSelectDropsStalePosts(t *testing.T) {
	stale := func(id string) scraper.Post {
		return scraper.Post{ID: id, CreatedAt: now.Add(-48 * time.Hour)}
	}

	got := Select([]scraper.Post{stale("p1"), stale("p2"), stale("p3")}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 5,
		Now:      now,
	})

	if len(got) != 0 {
		t.Fatalf("Expected empty result for all-stale input, got %v", ids(got))
	}
}

func TestSelectCutoffBoundaryIsInclusive(t *testing.T) {
	exact := scraper.Post{ID: "boundary", CreatedAt: now.Add(-24 * time.Hour)}
	justOver := scraper.Post{ID: "stale", CreatedAt: now.Add(-24*time.Hour - time.Second)}

	got := Select([]scraper.Post{exact, justOver}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 5,
		Now:      now,
	})

	assertIDs(t, got, "boundary")
}

func TestSelectStableUnderTies(t *testing.T) {
	a := recentPost("a", 7)
	b := recentPost("b", 7)
	c := recentPost("c", 7)

	got := Select([]scraper.Post{a, b, c}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 5,
		Now:      now,
	})

	assertIDs(t, got, "a", "b", "c")
}

func TestSelectIdentityOnCanonicalInput(t *testing.T) {
	// Already sorted descending, all recent, no reposts: output is the
	// input, truncated.
	input := []scraper.Post{recentPost("a", 30), recentPost("b", 20), recentPost("c", 10)}

	got := Select(input, Options{Lookback: 24 * time.Hour, MaxPosts: 5, Now: now})
	assertIDs(t, got, "a", "b", "c")

	got = Select(input, Options{Lookback: 24 * time.Hour, MaxPosts: 2, Now: now})
	assertIDs(t, got, "a", "b")
}

func TestSelectScoreOrderingUsesWeights(t *testing.T) {
	// 5 likes + 2*3 reposts = 11 beats 10 likes.
	weighted := recentPost("weighted", 5)
	weighted.Reposts = 3
	likesOnly := recentPost("likes", 10)

	got := Select([]scraper.Post{likesOnly, weighted}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 5,
		Now:      now,
	})

	assertIDs(t, got, "weighted", "likes")
}

func TestSelectMaxPostsZeroReturnsEmpty(t *testing.T) {
	got := Select([]scraper.Post{recentPost("p1", 1)}, Options{
		Lookback: 24 * time.Hour,
		MaxPosts: 0,
		Now:      now,
	})
	if len(got) != 0 {
		t.Fatalf("Expected empty result for MaxPosts=0, got %v", ids(got))
	}
}

func TestSelectZeroLookbackKeepsOnlyNow(t *testing.T) {
	atNow := scraper.Post{ID: "now", CreatedAt: now}
	earlier := scraper.Post{ID: "earlier", CreatedAt: now.Add(-time.Minute)}

	got := Select([]scraper.Post{atNow, earlier}, Options{
		Lookback: 0,
		MaxPosts: 5,
		Now:      now,
	})

	assertIDs(t, got, "now")
}

func TestSelectEmptyInput(t *testing.T) {
	got := Select(nil, Options{Lookback: 24 * time.Hour, MaxPosts: 5, Now: now})
	if len(got) != 0 {
		t.Fatalf("Expected empty result for empty input, got %d posts", len(got))
	}
}
