package firefox

import (
	"context"
	"fmt"
)

// VersionFetcher retrieves a fresh version document.
type VersionFetcher interface {
	FetchVersionDocument(ctx context.Context) (*VersionDocument, error)
}

// Resolution is the outcome of resolving a channel name.
type Resolution struct {
	Channel Channel
	Version string
}

// SourceURL returns the source tarball location of the resolved version.
func (r Resolution) SourceURL() string {
	return SourceURL(r.Version)
}

// Resolver turns channel names into version strings. It holds no state
// between calls; each resolution fetches the document again.
type Resolver struct {
	fetcher VersionFetcher
}

// NewResolver creates a resolver backed by fetcher.
func NewResolver(fetcher VersionFetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve parses name, fetches the version document and selects the
// channel's version. The first error encountered is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, name string) (Resolution, error) {
	channel, err := ParseChannel(name)
	if err != nil {
		return Resolution{}, err
	}

	doc, err := r.fetcher.FetchVersionDocument(ctx)
	if err != nil {
		return Resolution{}, err
	}

	return Resolution{Channel: channel, Version: doc.SelectVersion(channel)}, nil
}

// ResolveVersion returns the current version string for the named channel.
func (r *Resolver) ResolveVersion(ctx context.Context, name string) (string, error) {
	res, err := r.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	return res.Version, nil
}

// ResolveAll returns the version of every channel from a single fetch.
func (r *Resolver) ResolveAll(ctx context.Context) (map[Channel]string, error) {
	doc, err := r.fetcher.FetchVersionDocument(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving all channels: %w", err)
	}

	versions := make(map[Channel]string, len(Channels()))
	for _, c := range Channels() {
		versions[c] = doc.SelectVersion(c)
	}
	return versions, nil
}
