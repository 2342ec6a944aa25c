// Package collect orchestrates a collection run: search, dedup, fetch,
// score, archive, report, notify.
package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"adscout/internal/config"
	"adscout/internal/dedup"
	"adscout/internal/fetch"
	"adscout/internal/notify"
	"adscout/internal/parse"
	"adscout/internal/relevance"
	"adscout/internal/report"
	"adscout/internal/search"
	"adscout/internal/storage"
	"adscout/internal/types"
)

// ArticleParser enriches an article from its page.
type ArticleParser interface {
	Parse(ctx context.Context, art *types.Article) error
}

// Renderer writes the HTML report for a run.
type Renderer interface {
	Render(articles []types.Article, date time.Time) (string, error)
}

// Notifier posts the run summary to a webhook.
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, p *notify.Payload) error
}

// Collector runs the collection pipeline end to end.
type Collector struct {
	cfg       *config.Config
	logger    *slog.Logger
	fetcher   *fetch.Fetcher
	providers []search.Provider
	parser    ArticleParser
	scorer    *relevance.Scorer
	store     dedup.Store
	archive   storage.Archive
	renderer  Renderer
	webhook   Notifier
	stats     *Stats
}

// New wires a Collector from configuration. A corrupt dedup store is
// degraded to empty with a warning rather than failing the run.
func New(cfg *config.Config, logger *slog.Logger) (*Collector, error) {
	fetcher, err := fetch.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	providerNames := map[string]bool{}
	var names []string
	for _, q := range cfg.Search.Queries {
		for _, src := range q.Sources {
			if !providerNames[src] {
				providerNames[src] = true
				names = append(names, src)
			}
		}
	}
	providers, err := search.Providers(names, fetcher)
	if err != nil {
		return nil, err
	}

	scorer, err := relevance.NewScorer(cfg.Relevance.Keywords,
		relevance.WithTitleMultiplier(cfg.Relevance.TitleMultiplier),
		relevance.WithNormalization(cfg.Relevance.Normalization),
	)
	if err != nil {
		return nil, err
	}

	store, err := dedup.Open(cfg.Collector.StateDir, logger)
	if err != nil {
		if !errors.Is(err, types.ErrStoreCorrupt) {
			return nil, err
		}
		logger.Warn("dedup store corrupt, starting with empty store", "error", err)
	}

	archive, err := storage.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Collector{
		cfg:       cfg,
		logger:    logger.With("component", "collector"),
		fetcher:   fetcher,
		providers: providers,
		parser:    parse.New(fetcher, logger),
		scorer:    scorer,
		store:     store,
		archive:   archive,
		renderer:  report.NewRenderer(cfg.Collector.OutputDir, cfg.Relevance.Thresholds(), logger),
		webhook:   notify.NewWebhook(cfg.Notify.WebhookURL, logger),
		stats:     &Stats{},
	}, nil
}

// SetProviders replaces the search providers.
func (c *Collector) SetProviders(providers []search.Provider) { c.providers = providers }

// SetParser replaces the article parser.
func (c *Collector) SetParser(p ArticleParser) { c.parser = p }

// SetStore replaces the dedup store.
func (c *Collector) SetStore(s dedup.Store) { c.store = s }

// SetArchive replaces the article archive.
func (c *Collector) SetArchive(a storage.Archive) { c.archive = a }

// SetRenderer replaces the report renderer.
func (c *Collector) SetRenderer(r Renderer) { c.renderer = r }

// SetNotifier replaces the webhook notifier.
func (c *Collector) SetNotifier(n Notifier) { c.webhook = n }

// Stats returns the run counters.
func (c *Collector) Stats() *Stats { return c.stats }

// Close releases the collector's resources.
func (c *Collector) Close() error {
	if c.fetcher != nil {
		c.fetcher.Close()
	}
	if c.archive != nil {
		return c.archive.Close()
	}
	return nil
}

// Run executes one collection run and returns its summary. Per-provider
// and per-article failures are isolated; only configuration and state
// problems abort the run.
func (c *Collector) Run(ctx context.Context) (*report.RunSummary, error) {
	lock, err := acquireLock(c.cfg.Collector.StateDir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	runID := uuid.New().String()
	started := time.Now()
	c.stats.StartTime = started
	var runErrors []string

	c.logger.Info("collection run starting", "run_id", runID, "providers", len(c.providers))

	hits, searchErrors := c.searchAll(ctx)
	runErrors = append(runErrors, searchErrors...)
	hits = search.FilterExcluded(hits, c.cfg.Search.ExcludeDomains)
	c.stats.HitsFound.Store(int64(len(hits)))

	candidates, duplicates := c.filterSeen(hits)
	c.stats.Duplicates.Store(int64(duplicates))
	c.logger.Info("search complete",
		"hits", len(hits), "new", len(candidates), "duplicates", duplicates)

	articles, fetchErrors := c.fetchAndScore(ctx, candidates)
	runErrors = append(runErrors, fetchErrors...)

	// Keep the best MaxArticlesPerRun when the run found more.
	report.SortRanked(articles)
	if limit := c.cfg.Collector.MaxArticlesPerRun; len(articles) > limit {
		c.logger.Info("capping run output", "found", len(articles), "cap", limit)
		articles = articles[:limit]
	}

	// Only kept articles become seen; a capped-out article can still
	// surface in a later run.
	for i := range articles {
		c.store.Record(articles[i].URL)
	}
	if err := c.store.Persist(); err != nil {
		return nil, fmt.Errorf("persist dedup store: %w", err)
	}

	summary := report.Assemble(runID, started, time.Now(), articles,
		len(hits), duplicates, runErrors,
		c.cfg.Relevance.Thresholds(), c.cfg.Relevance.TopLimit)

	c.finishRun(ctx, summary, articles)

	c.logger.Info("collection run finished", "run_id", runID, "stats", c.stats.Snapshot())
	return summary, nil
}

// searchAll queries every provider for every configured query. Provider
// failures are collected, not fatal.
func (c *Collector) searchAll(ctx context.Context) ([]types.RawHit, []string) {
	byName := make(map[string]search.Provider, len(c.providers))
	for _, p := range c.providers {
		byName[p.Name()] = p
	}

	var hits []types.RawHit
	var errs []string
	first := true

	for _, q := range c.cfg.Search.Queries {
		query := q
		if len(query.Sites) == 0 {
			query.Sites = c.cfg.Search.TargetSites
		}
		for _, name := range q.Sources {
			provider, ok := byName[name]
			if !ok {
				continue
			}
			if !first && c.cfg.Search.RequestDelay > 0 {
				select {
				case <-time.After(c.cfg.Search.RequestDelay):
				case <-ctx.Done():
					return hits, errs
				}
			}
			first = false

			found, err := provider.Search(ctx, query)
			if err != nil {
				c.logger.Warn("provider search failed", "provider", name, "error", err)
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
				continue
			}
			c.logger.Debug("provider search complete", "provider", name, "hits", len(found))
			hits = append(hits, found...)
		}
	}
	return hits, errs
}

// filterSeen drops hits already recorded in the store or repeated
// within this run. Both checks use the canonical URL form.
func (c *Collector) filterSeen(hits []types.RawHit) (fresh []types.RawHit, duplicates int) {
	inRun := make(map[string]bool, len(hits))
	for _, hit := range hits {
		key := dedup.Canonicalize(hit.URL)
		if inRun[key] {
			duplicates++
			continue
		}
		inRun[key] = true
		if c.cfg.Collector.DedupEnabled && c.store.Seen(hit.URL) {
			duplicates++
			continue
		}
		fresh = append(fresh, hit)
	}
	return fresh, duplicates
}

// fetchAndScore fetches and parses candidates with a bounded worker
// pool, then scores the survivors. A failed article is dropped and its
// error recorded; it never aborts the run.
func (c *Collector) fetchAndScore(ctx context.Context, candidates []types.RawHit) ([]types.Article, []string) {
	type result struct {
		article *types.Article
		err     error
	}

	jobs := make(chan types.RawHit)
	results := make(chan result)

	var wg sync.WaitGroup
	for w := 0; w < c.cfg.Collector.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hit := range jobs {
				art := types.NewArticle(hit.URL, hit.Title, hit.SourceSite)
				art.Summary = hit.Snippet
				art.IsNew = true

				if err := c.parser.Parse(ctx, art); err != nil {
					c.stats.FetchErrors.Add(1)
					results <- result{article: art, err: err}
					continue
				}
				c.stats.Fetched.Add(1)
				results <- result{article: art}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, hit := range candidates {
			select {
			case jobs <- hit:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var articles []types.Article
	var errs []string
	for res := range results {
		if res.err != nil {
			c.logger.Warn("article processing failed", "url", res.article.URL, "error", res.err)
			errs = append(errs, fmt.Sprintf("%s: %v", res.article.URL, res.err))
			continue
		}
		title, body := res.article.Text()
		score, matched := c.scorer.Score(title, body)
		res.article.RelevanceScore = score
		res.article.MatchedKeywords = matched
		c.stats.Scored.Add(1)
		articles = append(articles, *res.article)
	}
	return articles, errs
}

// finishRun archives, renders, and notifies. Each step is best-effort:
// a failure is logged and appended to the summary's error list.
func (c *Collector) finishRun(ctx context.Context, summary *report.RunSummary, articles []types.Article) {
	record := func(stage string, err error) {
		c.logger.Error(stage+" failed", "error", err)
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", stage, err))
		summary.ErrorCount = len(summary.Errors)
	}

	if len(articles) > 0 {
		if err := c.archive.SaveArticles(ctx, articles); err != nil {
			record("archive", err)
		}
		if _, err := c.archive.ExportDaily(ctx, articles, summary.StartedAt); err != nil {
			record("daily export", err)
		}
	}

	reportRef := ""
	if path, err := c.renderer.Render(articles, summary.StartedAt); err != nil {
		record("report", err)
	} else {
		reportRef = path
		if base := c.cfg.Notify.ReportBaseURL; base != "" {
			reportRef = base + "/" + report.ReportFilename(summary.StartedAt)
		}
	}

	if err := c.archive.SaveRunSummary(ctx, summary); err != nil {
		record("run history", err)
	}

	if c.webhook.Enabled() {
		payload := notify.BuildPayload(summary, reportRef, c.cfg.Relevance.Thresholds())
		if err := c.webhook.Send(ctx, payload); err != nil {
			record("notification", err)
		}
	}
}
