// Package search implements the web search tool on top of DuckDuckGo Lite.
//
// DuckDuckGo Lite renders results in a table. Each result row holds an
// <a class="result-link"> with the title and URL, and the row after it holds a
// <td class="result-snippet"> with the description. Links usually go through a
// redirect ("//duckduckgo.com/l/?uddg=<target>") which is unwrapped.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/rickchristie/researcher"
)

const (
	DefaultName        = "Search"
	DefaultDescription = "A wrapper around DuckDuckGo Search. Useful for when you need to answer " +
		"questions about current events. Input should be a search query."
	DefaultEndpoint   = "https://lite.duckduckgo.com/lite/"
	DefaultUserAgent  = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultMaxResults = 5
	DefaultTimeout    = 15 * time.Second

	// NoResultsObservation is returned, without error, when the page holds no results.
	NoResultsObservation = "No good DuckDuckGo Search Result was found"
)

// Config configures the search tool.
type Config struct {
	Endpoint   string        `yaml:"endpoint" json:"endpoint,omitempty" jsonschema:"format=uri"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent,omitempty"`
	MaxResults int           `yaml:"max_results" json:"max_results,omitempty" jsonschema:"minimum=1,maximum=30"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout,omitempty"`

	// Region is the DuckDuckGo "kl" parameter, e.g. "us-en" or "wt-wt".
	Region string `yaml:"region" json:"region,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		UserAgent:  DefaultUserAgent,
		MaxResults: DefaultMaxResults,
		Timeout:    DefaultTimeout,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Endpoint == "" {
		c.Endpoint = d.Endpoint
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.MaxResults <= 0 {
		c.MaxResults = d.MaxResults
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	return c
}

// Result is one search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Tool is the web search tool.
type Tool struct {
	name        string
	description string
	config      Config
}

// New creates the search tool.
func New(config Config) *Tool {
	return &Tool{
		name:        DefaultName,
		description: DefaultDescription,
		config:      config.withDefaults(),
	}
}

// WithName overrides the name used after "Action:".
func (t *Tool) WithName(name string) *Tool {
	t.name = name
	return t
}

func (t *Tool) Name() string { return t.name }

func (t *Tool) Description() string { return t.description }

// Call searches for query and renders the hits as numbered text.
func (t *Tool) Call(ctx context.Context, query string) (string, error) {
	results, err := t.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoResultsObservation, nil
	}
	return Render(results), nil
}

// Search fetches the results page for query. Transport failures and non-2xx responses
// are returned as [*researcher.NetworkError].
func (t *Tool) Search(ctx context.Context, query string) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	target, err := t.searchURL(query)
	if err != nil {
		return nil, &researcher.NetworkError{Op: "build search url", Err: err}
	}

	c := colly.NewCollector(
		colly.UserAgent(t.config.UserAgent),
		colly.StdlibContext(ctx),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(t.config.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var results []Result
	c.OnHTML("html", func(e *colly.HTMLElement) {
		results = ParseResults(e.DOM, t.config.MaxResults)
	})

	if err := c.Visit(target); err != nil {
		return nil, &researcher.NetworkError{Op: "search", URL: target, Err: err}
	}
	return results, nil
}

func (t *Tool) searchURL(query string) (string, error) {
	u, err := url.Parse(t.config.Endpoint)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", query)
	if t.config.Region != "" {
		q.Set("kl", t.config.Region)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseResults extracts up to max results from a DuckDuckGo Lite page.
func ParseResults(doc *goquery.Selection, max int) []Result {
	var results []Result
	doc.Find("a.result-link").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		link := resolveURL(href)
		title := strings.TrimSpace(a.Text())
		if link == "" || title == "" {
			return true
		}

		snippet := a.Closest("tr").NextAllFiltered("tr").First().Find("td.result-snippet").Text()

		results = append(results, Result{
			Title:   title,
			URL:     link,
			Snippet: strings.Join(strings.Fields(snippet), " "),
		})
		return len(results) < max
	})
	return results
}

// resolveURL unwraps redirect links and drops links back into DuckDuckGo itself (ads).
func resolveURL(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if strings.HasSuffix(u.Hostname(), "duckduckgo.com") {
		return ""
	}
	return u.String()
}

// Render formats results as a numbered list for the model.
func Render(results []Result) string {
	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "%d. %s\n   URL: %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "\n   %s", r.Snippet)
		}
	}
	return sb.String()
}

var _ researcher.Tool = (*Tool)(nil)
