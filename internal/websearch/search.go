package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/logger"
)

const (
	pseEndpoint     = "https://www.googleapis.com/customsearch/v1"
	serpAPIEndpoint = "https://serpapi.com/search.json"
	resultsPerQuery = 5
	maxProfiles     = 10
)

// Result is a single web search hit.
type Result struct {
	Title   string
	Snippet string
	Link    string
	Source  string
}

// Searcher queries Google PSE and SerpAPI for company and contact
// research. Providers without credentials are skipped silently so the
// feature degrades instead of failing.
type Searcher struct {
	cfg        config.WebSearchConfig
	httpClient *http.Client
	log        *logger.Logger
}

func NewSearcher(cfg config.WebSearchConfig, log *logger.Logger) *Searcher {
	return &Searcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		log:        log,
	}
}

func (s *Searcher) Configured() bool {
	return (s.cfg.GooglePSEAPIKey != "" && s.cfg.GooglePSECX != "") || s.cfg.SerpAPIKey != ""
}

// CompanyContext gathers company background for profile generation and
// formats it as prompt context.
func (s *Searcher) CompanyContext(ctx context.Context, companyName string) string {
	query := companyName + " company information business profile"
	results := s.collect(ctx, []string{query}, "")
	return formatResults(dedupe(results))
}

// LinkedInContext searches for decision-maker profiles at the company.
// Queries target Ethiopia since that is where most customers operate.
func (s *Searcher) LinkedInContext(ctx context.Context, companyName string) string {
	queries := []string{
		fmt.Sprintf(`site:linkedin.com/in/ "%s" Ethiopia (CEO OR "Managing Director" OR "General Manager")`, companyName),
		fmt.Sprintf(`site:linkedin.com/in/ "%s" Ethiopia (Procurement OR "Supply Chain" OR Purchasing)`, companyName),
		fmt.Sprintf(`site:linkedin.com/in/ "%s" Ethiopia (Sales OR "Business Development")`, companyName),
		fmt.Sprintf(`site:linkedin.com/in/ "%s" Ethiopia`, companyName),
	}
	profiles := dedupe(s.collect(ctx, queries, "et"))
	if len(profiles) > maxProfiles {
		profiles = profiles[:maxProfiles]
	}

	var b strings.Builder
	b.WriteString("LinkedIn profiles:\n")
	if len(profiles) == 0 {
		b.WriteString("No relevant profiles found.\n")
		return b.String()
	}
	for _, p := range profiles {
		name := strings.TrimSpace(strings.SplitN(p.Title, "|", 2)[0])
		fmt.Fprintf(&b, "- Name: %s\n  Profile: %s\n  Source: %s\n", name, p.Link, p.Source)
		if p.Snippet != "" {
			fmt.Fprintf(&b, "  Context: %s\n", p.Snippet)
		}
	}
	return b.String()
}

func (s *Searcher) collect(ctx context.Context, queries []string, countryCode string) []Result {
	var results []Result
	for _, query := range queries {
		if s.cfg.GooglePSEAPIKey != "" && s.cfg.GooglePSECX != "" {
			hits, err := s.searchPSE(ctx, query, countryCode)
			if err != nil {
				s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "pse search failed")
			} else {
				results = append(results, hits...)
			}
		}
		if s.cfg.SerpAPIKey != "" {
			hits, err := s.searchSerpAPI(ctx, query, countryCode)
			if err != nil {
				s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "serpapi search failed")
			} else {
				results = append(results, hits...)
			}
		}
	}
	return results
}

type pseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

func (s *Searcher) searchPSE(ctx context.Context, query, countryCode string) ([]Result, error) {
	params := url.Values{}
	params.Set("key", s.cfg.GooglePSEAPIKey)
	params.Set("cx", s.cfg.GooglePSECX)
	params.Set("q", query)
	params.Set("num", fmt.Sprint(resultsPerQuery))
	if countryCode != "" {
		params.Set("gl", countryCode)
		params.Set("hl", "en")
	}

	var resp pseResponse
	if err := s.getJSON(ctx, pseEndpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
			Source:  "Google PSE",
		})
	}
	return results, nil
}

type serpAPIResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

func (s *Searcher) searchSerpAPI(ctx context.Context, query, countryCode string) ([]Result, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.cfg.SerpAPIKey)
	params.Set("num", fmt.Sprint(resultsPerQuery))
	if countryCode != "" {
		params.Set("gl", countryCode)
		params.Set("hl", "en")
	}

	var resp serpAPIResponse
	if err := s.getJSON(ctx, serpAPIEndpoint+"?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(resp.OrganicResults))
	for _, item := range resp.OrganicResults {
		results = append(results, Result{
			Title:   item.Title,
			Snippet: item.Snippet,
			Link:    item.Link,
			Source:  "SerpAPI",
		})
	}
	return results, nil
}

func (s *Searcher) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("search provider returned %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func dedupe(results []Result) []Result {
	seen := map[string]bool{}
	out := results[:0:0]
	for _, r := range results {
		if r.Link == "" || seen[r.Link] {
			continue
		}
		seen[r.Link] = true
		out = append(out, r)
	}
	return out
}

func formatResults(results []Result) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "Title: %s\nSnippet: %s\nLink: %s\nSource: %s\n---\n", r.Title, r.Snippet, r.Link, r.Source)
	}
	return b.String()
}
