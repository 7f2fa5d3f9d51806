package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"goal-roadmap/internal/domain"
)

const (
	sourceTypeWikipedia = "Wikipedia Article"
	titleRelevance      = 0.9
	subTopicRelevance   = 0.8
	searchLimit         = "10"
)

// Article es un resultado de búsqueda de Wikipedia.
type Article struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// WikipediaClient consulta la API opensearch de Wikipedia.
// Entre dos peticiones cualesquiera deja pasar al menos delay.
type WikipediaClient struct {
	apiURL string
	delay  time.Duration
	client *http.Client
	logger *zap.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

func NewWikipediaClient(logger *zap.Logger, apiURL string, delay time.Duration) *WikipediaClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiURL == "" {
		apiURL = "https://en.wikipedia.org/w/api.php"
	}
	return &WikipediaClient{
		apiURL: apiURL,
		delay:  delay,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// throttle espera lo que falte de delay desde la última petición. Corta si ctx se cancela.
func (c *WikipediaClient) throttle(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if wait := c.delay - time.Since(c.lastRequest); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *WikipediaClient) opensearch(ctx context.Context, term string) ([]Article, error) {
	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("action", "opensearch")
	params.Set("search", term)
	params.Set("limit", searchLimit)
	params.Set("namespace", "0")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("wikipedia http error: status=%d", resp.StatusCode)
	}

	// Formato: [término, [títulos], [descripciones], [urls]]
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(parts) < 4 {
		return nil, nil
	}
	var titles, urls []string
	if err := json.Unmarshal(parts[1], &titles); err != nil {
		return nil, fmt.Errorf("unmarshal titles: %w", err)
	}
	if err := json.Unmarshal(parts[3], &urls); err != nil {
		return nil, fmt.Errorf("unmarshal urls: %w", err)
	}

	n := min(len(titles), len(urls))
	articles := make([]Article, 0, n)
	for i := 0; i < n; i++ {
		articles = append(articles, Article{Title: titles[i], URL: urls[i]})
	}
	return articles, nil
}

// SearchArticle busca el artículo más relevante para query. Devuelve nil si no hay ninguno.
// Prueba el término original, su versión limpia y, para "X theory", el concepto X.
func (c *WikipediaClient) SearchArticle(ctx context.Context, query string) (*Article, error) {
	queries := searchQueries(query)

	var fallback *Article
	for _, term := range queries {
		articles, err := c.opensearch(ctx, term)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("wikipedia search failed", zap.String("term", term), zap.Error(err))
			continue
		}

		lowerTerm := strings.ToLower(term)
		for j, a := range articles {
			lowerTitle := strings.ToLower(a.Title)
			if lowerTerm == lowerTitle {
				found := a
				return &found, nil
			}
			if strings.Contains(lowerTitle, lowerTerm) || strings.Contains(lowerTerm, lowerTitle) {
				found := a
				return &found, nil
			}
			if j == 0 && fallback == nil {
				first := a
				fallback = &first
			}
		}
	}
	return fallback, nil
}

func searchQueries(query string) []string {
	queries := []string{query}
	contains := func(q string) bool {
		for _, existing := range queries {
			if existing == q {
				return true
			}
		}
		return false
	}

	cleaned := CleanTopicTitle(query)
	if cleaned != "" && !strings.EqualFold(cleaned, query) && !contains(cleaned) {
		queries = append(queries, cleaned)
	}

	if strings.HasSuffix(strings.ToLower(query), " theory") {
		core := strings.Replace(query, " Theory", "", 1)
		core = strings.Replace(core, " theory", "", 1)
		if core != "" && !strings.EqualFold(core, query) && !contains(core) {
			queries = append(queries, core)
		}
	}
	return queries
}

type articleSearcher interface {
	SearchArticle(ctx context.Context, query string) (*Article, error)
}

// Finder arma la lista de fuentes de un tema a partir de su título y su descripción.
type Finder struct {
	search articleSearcher
	logger *zap.Logger
}

func NewFinder(logger *zap.Logger, search articleSearcher) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finder{search: search, logger: logger}
}

// FindSources busca el título (relevancia 0.9) y cada sub-tema de la descripción (0.8).
// Las URLs no se repiten. Solo devuelve error si ctx se cancela.
func (f *Finder) FindSources(ctx context.Context, topic domain.Topic) ([]domain.Source, error) {
	var sources []domain.Source
	seen := make(map[string]bool)

	add := func(query string, relevance float64) error {
		article, err := f.search.SearchArticle(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			f.logger.Warn("source search failed", zap.String("query", query), zap.Error(err))
			return nil
		}
		if article == nil {
			f.logger.Debug("no article found", zap.String("query", query))
			return nil
		}
		if seen[article.URL] {
			return nil
		}
		seen[article.URL] = true
		sources = append(sources, domain.Source{
			URL:             article.URL,
			Type:            sourceTypeWikipedia,
			Title:           article.Title,
			RelevanceScore:  relevance,
			ContextForTopic: query,
		})
		return nil
	}

	if err := add(topic.Title, titleRelevance); err != nil {
		return nil, err
	}
	if strings.TrimSpace(topic.Description) != "" {
		for _, sub := range ExtractKeywords(topic.Description) {
			if err := add(sub, subTopicRelevance); err != nil {
				return nil, err
			}
		}
	}
	return sources, nil
}
