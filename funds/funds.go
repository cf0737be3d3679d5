// Package funds looks up Indian mutual fund schemes from a scheme list
// source, caching the list because it changes at most daily.
package funds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/tradebook/cache"
)

const (
	DefaultURL = "https://api.mfapi.in/mf"
	DefaultTTL = 12 * time.Hour

	listKey = "schemes"
)

// ErrUpstream wraps every failure to fetch the scheme list from its source.
var ErrUpstream = errors.New("scheme source unavailable")

type Scheme struct {
	Code int    `json:"schemeCode"`
	Name string `json:"schemeName"`
}

// Source fetches the full scheme list.
type Source interface {
	Schemes(ctx context.Context) ([]Scheme, error)
}

// HTTPSource reads the scheme list as a JSON array from URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string) *HTTPSource {
	if url == "" {
		url = DefaultURL
	}
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: 20 * time.Second}}
}

func (s *HTTPSource) Schemes(ctx context.Context) ([]Scheme, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schemes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch schemes: %s", resp.Status)
	}

	var out []Scheme
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode schemes: %w", err)
	}
	return out, nil
}

// Directory answers scheme queries from a cached copy of the source list.
type Directory struct {
	src   Source
	cache cache.Cache[[]Scheme]
	ttl   time.Duration
	log   zerolog.Logger
}

func NewDirectory(src Source, c cache.Cache[[]Scheme], ttl time.Duration, log zerolog.Logger) *Directory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Directory{
		src:   src,
		cache: c,
		ttl:   ttl,
		log:   log.With().Str("component", "funds").Logger(),
	}
}

func (d *Directory) schemes(ctx context.Context) ([]Scheme, error) {
	return cache.GetOrLoad(ctx, d.cache, listKey, d.ttl, func(ctx context.Context) ([]Scheme, error) {
		start := time.Now()
		list, err := d.src.Schemes(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
		}
		d.log.Info().Int("schemes", len(list)).Dur("elapsed", time.Since(start)).Msg("scheme list refreshed")
		return list, nil
	})
}

// Refresh reloads the scheme list from the source and replaces the cached
// copy. A failed fetch leaves the cached copy in place.
func (d *Directory) Refresh(ctx context.Context) error {
	list, err := d.src.Schemes(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if err := d.cache.Set(ctx, listKey, list, d.ttl); err != nil {
		return err
	}
	d.log.Info().Int("schemes", len(list)).Msg("scheme list refreshed")
	return nil
}

// Search returns up to limit schemes whose name contains every word of q,
// case-insensitively, ordered by name. limit <= 0 means no limit.
func (d *Directory) Search(ctx context.Context, q string, limit int) ([]Scheme, error) {
	words := strings.Fields(strings.ToLower(q))
	if len(words) == 0 {
		return nil, nil
	}
	list, err := d.schemes(ctx)
	if err != nil {
		return nil, err
	}

	var out []Scheme
	for _, s := range list {
		name := strings.ToLower(s.Name)
		match := true
		for _, w := range words {
			if !strings.Contains(name, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Lookup finds a scheme by its AMFI code.
func (d *Directory) Lookup(ctx context.Context, code int) (Scheme, bool, error) {
	list, err := d.schemes(ctx)
	if err != nil {
		return Scheme{}, false, err
	}
	for _, s := range list {
		if s.Code == code {
			return s, true, nil
		}
	}
	return Scheme{}, false, nil
}
