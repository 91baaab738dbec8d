package registry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultRegistryURL serves search and package metadata.
	DefaultRegistryURL = "https://registry.npmjs.org"

	// DefaultAPIURL serves download counts.
	DefaultAPIURL = "https://api.npmjs.org"

	// maxSearchSize is the registry's hard limit on search page size.
	maxSearchSize = 250
)

// Download count ranges accepted by the downloads endpoint.
const (
	RangeLastWeek  = "last-week"
	RangeLastMonth = "last-month"
)

// NPM exposes the npm registry endpoints over a shared [Client].
type NPM struct {
	client      *Client
	registryURL string
	apiURL      string
}

// NewNPM creates an endpoint wrapper. Empty URLs fall back to the public
// registry.
func NewNPM(client *Client, registryURL, apiURL string) *NPM {
	if registryURL == "" {
		registryURL = DefaultRegistryURL
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &NPM{
		client:      client,
		registryURL: strings.TrimSuffix(registryURL, "/"),
		apiURL:      strings.TrimSuffix(apiURL, "/"),
	}
}

// SearchParams are the weighting knobs of the search endpoint. A zero
// weight is omitted from the query, leaving the registry's default.
type SearchParams struct {
	Size        int
	Quality     float64
	Popularity  float64
	Maintenance float64
}

// Search runs a full-text package search. Size is clamped to the
// registry's maximum of 250.
func (n *NPM) Search(ctx context.Context, query string, params SearchParams) (*SearchResponse, error) {
	size := params.Size
	if size <= 0 {
		size = 20
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}

	q := url.Values{}
	q.Set("text", query)
	q.Set("size", strconv.Itoa(size))
	if params.Quality > 0 {
		q.Set("quality", formatWeight(params.Quality))
	}
	if params.Popularity > 0 {
		q.Set("popularity", formatWeight(params.Popularity))
	}
	if params.Maintenance > 0 {
		q.Set("maintenance", formatWeight(params.Maintenance))
	}

	var resp SearchResponse
	if err := n.client.Get(ctx, n.registryURL+"/-/v1/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Packument fetches the full package document: dist-tags, per-version
// manifests, publish times, and maintainers.
func (n *NPM) Packument(ctx context.Context, name string) (*Packument, error) {
	var doc Packument
	// Scoped names need their slash escaped (@scope%2Fname).
	if err := n.client.Get(ctx, n.registryURL+"/"+url.PathEscape(name), &doc); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: npm package %s", err, name)
		}
		return nil, err
	}
	return &doc, nil
}

// Downloads fetches the download count for a package over the given
// range (see RangeLastWeek, RangeLastMonth).
func (n *NPM) Downloads(ctx context.Context, rng, name string) (*DownloadsPoint, error) {
	var point DownloadsPoint
	if err := n.client.Get(ctx, n.apiURL+"/downloads/point/"+rng+"/"+name, &point); err != nil {
		return nil, err
	}
	return &point, nil
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
