package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goal-roadmap/internal/domain"
)

func TestCleanTopicTitle(t *testing.T) {
	tests := map[string]string{
		"Introduction to HTML":        "HTML",
		"The Hydrogen Atom":           "Hydrogen Atom",
		"Basics of Quantum Mechanics": "Quantum Mechanics",
		"Physics":                     "Physics",
		"Genesis":                     "Genesis",
		"Calculus":                    "Calculus",
		"Class":                       "Class",
		"Vectors":                     "Vector",
		"introduction to loops":       "loop",
		"Is":                          "Is",
	}
	for in, want := range tests {
		assert.Equal(t, want, CleanTopicTitle(in), "CleanTopicTitle(%q)", in)
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "comma and conjunction",
			in:   "Covers vector spaces, matrices and inner products.",
			want: []string{"Covers vector spaces", "matrices", "inner products"},
		},
		{
			name: "parenthetical list",
			in:   "Core ideas (limits, derivatives, integrals)",
			want: []string{"Core ideas (limits", "derivatives", "integrals"},
		},
		{
			name: "colon adds post-colon parts",
			in:   "Data structures: stacks; queues",
			want: []string{"Data structures: stacks", "queues", "stacks"},
		},
		{
			name: "filler and short words dropped",
			in:   "etc, and so on, map, basics, introduction",
			want: nil,
		},
		{
			name: "long phrases dropped",
			in:   "one two three four five six, hashing",
			want: []string{"hashing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.in))
		})
	}
}

func TestSearchQueries(t *testing.T) {
	assert.Equal(t,
		[]string{"Introduction to Graph Theory", "Graph Theory", "Introduction to Graph"},
		searchQueries("Introduction to Graph Theory"),
	)
	assert.Equal(t, []string{"Python"}, searchQueries("Python"))
}

type wikiRequest struct {
	term string
	at   time.Time
}

func newWikiServer(t *testing.T, results map[string][]Article) (*httptest.Server, func() []wikiRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		requests []wikiRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("action") != "opensearch" || q.Get("format") != "json" || q.Get("limit") != "10" {
			t.Errorf("unexpected query %v", q)
		}
		term := q.Get("search")
		mu.Lock()
		requests = append(requests, wikiRequest{term: term, at: time.Now()})
		mu.Unlock()

		titles, descs, urls := []string{}, []string{}, []string{}
		for _, a := range results[term] {
			titles = append(titles, a.Title)
			descs = append(descs, "")
			urls = append(urls, a.URL)
		}
		_ = json.NewEncoder(w).Encode([]any{term, titles, descs, urls})
	}))
	t.Cleanup(srv.Close)

	recorded := func() []wikiRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]wikiRequest(nil), requests...)
	}
	return srv, recorded
}

func TestSearchArticle(t *testing.T) {
	srv, recorded := newWikiServer(t, map[string][]Article{
		"Python":                  {{Title: "Pythonidae", URL: "u/pythonidae"}, {Title: "Python", URL: "u/python"}},
		"Monty":                   {{Title: "Monty Python", URL: "u/monty"}},
		"Introduction to Sorting": {{Title: "Bubble sort", URL: "u/bubble"}},
		"Sorting":                 {{Title: "Merge sort", URL: "u/merge"}},
	})
	c := NewWikipediaClient(nil, srv.URL, 0)
	ctx := context.Background()

	// "Pythonidae" contiene "python" y gana antes que el exacto posterior.
	a, err := c.SearchArticle(ctx, "Python")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "u/pythonidae", a.URL)

	a, err = c.SearchArticle(ctx, "Monty")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "Monty Python", a.Title)

	a, err = c.SearchArticle(ctx, "Introduction to Sorting")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "u/bubble", a.URL)

	a, err = c.SearchArticle(ctx, "Nothing here")
	require.NoError(t, err)
	assert.Nil(t, a)

	assert.GreaterOrEqual(t, len(recorded()), 5)
}

func TestWikipediaClient_SpacesEveryRequest(t *testing.T) {
	const delay = 60 * time.Millisecond
	srv, recorded := newWikiServer(t, nil)
	finder := NewFinder(nil, NewWikipediaClient(nil, srv.URL, delay))

	_, err := finder.FindSources(context.Background(), domain.Topic{
		Title:       "Golang",
		Description: "goroutines, channels",
	})
	require.NoError(t, err)

	reqs := recorded()
	require.GreaterOrEqual(t, len(reqs), 3, "title and keyword searches should all hit the API")
	for i := 1; i < len(reqs); i++ {
		gap := reqs[i].at.Sub(reqs[i-1].at)
		assert.GreaterOrEqual(t, gap, delay-5*time.Millisecond,
			"gap between %q and %q", reqs[i-1].term, reqs[i].term)
	}
}

func TestWikipediaClient_DelayRespectsContext(t *testing.T) {
	srv, recorded := newWikiServer(t, nil)
	c := NewWikipediaClient(nil, srv.URL, time.Hour)

	_, err := c.SearchArticle(context.Background(), "Go")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = c.SearchArticle(ctx, "Rust")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Len(t, recorded(), 1)
}

type fakeSearcher map[string]*Article

func (f fakeSearcher) SearchArticle(_ context.Context, query string) (*Article, error) {
	return f[query], nil
}

func TestFinderFindSources(t *testing.T) {
	finder := NewFinder(nil, fakeSearcher{
		"Linear Algebra": {Title: "Linear algebra", URL: "u/la"},
		"matrices":       {Title: "Matrix (mathematics)", URL: "u/matrix"},
		"vector spaces":  {Title: "Linear algebra", URL: "u/la"},
	})

	got, err := finder.FindSources(context.Background(), domain.Topic{
		Title:       "Linear Algebra",
		Description: "vector spaces, matrices, eigenvalues",
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.Source{
		{URL: "u/la", Type: "Wikipedia Article", Title: "Linear algebra", RelevanceScore: 0.9, ContextForTopic: "Linear Algebra"},
		{URL: "u/matrix", Type: "Wikipedia Article", Title: "Matrix (mathematics)", RelevanceScore: 0.8, ContextForTopic: "matrices"},
	}, got)
}

func TestFinderFindSources_CancelledContext(t *testing.T) {
	srv, _ := newWikiServer(t, nil)
	finder := NewFinder(nil, NewWikipediaClient(nil, srv.URL, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := finder.FindSources(ctx, domain.Topic{Title: "Go"})
	assert.Error(t, err)
}
