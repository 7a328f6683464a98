// Package index finds distribution candidates on a PEP 503 / PyPI
// JSON API index. Responses are cached through a pluggable cache
// backend and transient failures are retried with backoff.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/habnabit/pip/pkg/cache"
	"github.com/habnabit/pip/pkg/errors"
	"github.com/habnabit/pip/pkg/observability"
	"github.com/habnabit/pip/pkg/pep440"
	"github.com/habnabit/pip/pkg/req"
	"github.com/habnabit/pip/pkg/wheel"
)

// DefaultBaseURL is the canonical PyPI JSON API endpoint.
const DefaultBaseURL = "https://pypi.org/pypi"

const httpTimeout = 10 * time.Second

// Kind classifies a release file.
type Kind string

const (
	KindWheel Kind = "wheel"
	KindSdist Kind = "sdist"
)

// File is one downloadable release file of a project version.
type File struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Kind     Kind   `json:"kind"`
}

// Project is an index's view of one package: every release version and
// its files, newest version first.
type Project struct {
	Name     string            `json:"name"`
	Releases map[string][]File `json:"releases"`
}

// Versions returns the release versions in descending order. Versions
// that do not parse sort last, in lexical order.
func (p *Project) Versions() []string {
	versions := make([]string, 0, len(p.Releases))
	for v := range p.Releases {
		versions = append(versions, v)
	}
	sort.Slice(versions, func(i, j int) bool {
		vi, erri := pep440.Parse(versions[i])
		vj, errj := pep440.Parse(versions[j])
		switch {
		case erri == nil && errj == nil:
			return vi.Compare(vj) > 0
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return versions[i] < versions[j]
		}
	})
	return versions
}

// Client queries a PyPI-compatible JSON API with response caching.
// All methods are safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	baseURL string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different index (test servers,
// private mirrors).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient creates an index client. backend may be a NullCache for
// uncached operation; ttl bounds how long project metadata is reused.
func NewClient(backend cache.Cache, ttl time.Duration, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache.NewScoped(backend, "pypi:"),
		ttl:     ttl,
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchProject retrieves release metadata for a project. The name is
// normalized per PEP 503 before the request. refresh bypasses the
// cache.
func (c *Client) FetchProject(ctx context.Context, name string, refresh bool) (*Project, error) {
	name = req.CanonicalName(name)

	var project Project
	err := c.cached(ctx, name, refresh, &project, func() error {
		return c.fetch(ctx, name, &project)
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindCandidates implements [req.Finder]: it lists the release files
// for a project, newest version first, skipping wheel files with
// unparseable names.
func (c *Client) FindCandidates(ctx context.Context, name string) ([]req.Candidate, error) {
	project, err := c.FetchProject(ctx, name, false)
	if err != nil {
		return nil, err
	}

	var candidates []req.Candidate
	for _, version := range project.Versions() {
		for _, f := range project.Releases[version] {
			if f.Kind == KindWheel {
				if _, err := wheel.ParseFilename(f.Filename); err != nil {
					continue
				}
			}
			candidates = append(candidates, req.Candidate{
				Name:     project.Name,
				Version:  version,
				Filename: f.Filename,
				URL:      f.URL,
			})
		}
	}
	return candidates, nil
}

// cached returns v from the cache when possible, otherwise runs fetch
// with retries and stores the JSON-encoded result.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if err := json.Unmarshal(data, v); err == nil {
				observability.Cache().OnCacheHit(ctx, "project")
				return nil
			}
			// A corrupt entry is treated as a miss.
		}
	}
	observability.Cache().OnCacheMiss(ctx, "project")
	if err := cache.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		_ = c.cache.Set(ctx, key, data, c.ttl)
		observability.Cache().OnCacheSet(ctx, "project", len(data))
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, name string, project *Project) error {
	var data apiResponse
	if err := c.get(ctx, fmt.Sprintf("%s/%s/json", c.baseURL, name), &data); err != nil {
		return err
	}

	releases := make(map[string][]File, len(data.Releases))
	for version, files := range data.Releases {
		for _, f := range files {
			kind := KindSdist
			if f.PackageType == "bdist_wheel" || strings.HasSuffix(f.Filename, ".whl") {
				kind = KindWheel
			}
			releases[version] = append(releases[version], File{
				Filename: f.Filename,
				URL:      f.URL,
				Kind:     kind,
			})
		}
	}

	*project = Project{
		Name:     req.CanonicalName(data.Info.Name),
		Releases: releases,
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, http.MethodGet, url)
	start := time.Now()
	resp, err := c.http.Do(request)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, url, err)
		return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request to %s failed", url))
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, http.MethodGet, url, resp.StatusCode, time.Since(start))

	if err := checkStatus(url, resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(url string, code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodePackageNotFound, "no project at %s", url)
	case code >= 500:
		return cache.Retryable(errors.New(errors.ErrCodeNetwork, "%s returned status %d", url, code))
	default:
		return errors.New(errors.ErrCodeNetwork, "%s returned status %d", url, code)
	}
}

type apiResponse struct {
	Info     apiInfo              `json:"info"`
	Releases map[string][]apiFile `json:"releases"`
}

type apiInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type apiFile struct {
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	PackageType string `json:"packagetype"`
}
