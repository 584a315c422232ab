package http

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
)

// Default source aliases.
const (
	AliasMain    = "main"
	AliasCDN     = "cdn"
	AliasContent = "content"
)

// Source describes a destination to register: a short alias, the base URL
// requests are sent to and the minimum interval between two requests.
type Source struct {
	Alias    string
	BaseURL  string
	Interval time.Duration
}

// DefaultSources are the MangaDex destinations every run starts with. The
// at-home coordination endpoint is throttled harder than the metadata API.
var DefaultSources = []Source{
	{Alias: AliasMain, BaseURL: "https://api.mangadex.org", Interval: 250 * time.Millisecond},
	{Alias: AliasCDN, BaseURL: "https://api.mangadex.org", Interval: 1500 * time.Millisecond},
	{Alias: AliasContent, BaseURL: "https://uploads.mangadex.org", Interval: 250 * time.Millisecond},
}

// Destination is a registered, rate-limited remote host.
type Destination struct {
	Alias   string
	BaseURL string
	Host    string
	Limiter *Limiter
}

// Registry maps aliases to destinations. It is populated at startup and may
// grow at runtime when asset servers are discovered from API responses.
type Registry struct {
	mu           sync.RWMutex
	destinations map[string]*Destination
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{destinations: make(map[string]*Destination)}
}

// NewRegistryFromSources returns a registry holding the given sources.
func NewRegistryFromSources(sources []Source) (*Registry, error) {
	r := NewRegistry()
	for _, s := range sources {
		if err := r.Register(s.Alias, s.BaseURL, s.Interval); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry pre-populated with DefaultSources.
func DefaultRegistry() *Registry {
	r, err := NewRegistryFromSources(DefaultSources)
	if err != nil {
		// DefaultSources are constants; failing here is a programming error.
		panic(err)
	}
	return r
}

// Register adds a destination under alias. It fails with ErrDuplicateAlias
// if the alias exists and with ErrConfiguration if baseURL is not an
// absolute URL.
func (r *Registry) Register(alias, baseURL string, interval time.Duration) error {
	host, err := hostOf(baseURL)
	if err != nil {
		return fmt.Errorf("%w: source %q: %v", ErrConfiguration, alias, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.destinations[alias]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
	}
	r.destinations[alias] = &Destination{
		Alias:   alias,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Host:    host,
		Limiter: NewLimiter(interval),
	}
	return nil
}

// RegisterOrIgnore registers alias unless it already exists. Only
// configuration errors are reported.
func (r *Registry) RegisterOrIgnore(alias, baseURL string, interval time.Duration) error {
	err := r.Register(alias, baseURL, interval)
	if err != nil && !errors.Is(err, ErrDuplicateAlias) {
		return err
	}
	return nil
}

// Resolve returns the destination registered under alias. The boolean is
// false for unregistered aliases.
func (r *Registry) Resolve(alias string) (*Destination, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.destinations[alias]
	return d, ok
}

// Aliases returns the registered aliases in lexical order.
func (r *Registry) Aliases() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make([]string, 0, len(r.destinations))
	for a := range r.destinations {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return aliases
}

func hostOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q is not absolute", baseURL)
	}
	return u.Host, nil
}
