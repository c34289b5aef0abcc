package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pixelclaim/watermark"
)

// httpRegistry implements watermark.Registry against a JSON HTTP asset
// registry, talking net/http directly rather than through a client library.
type httpRegistry struct {
	baseURL string
	client  *http.Client
}

func newHTTPRegistry(baseURL string) *httpRegistry {
	return &httpRegistry{baseURL: baseURL, client: http.DefaultClient}
}

type digestLookupResponse struct {
	Found bool                  `json:"found"`
	Asset watermark.AssetRecord `json:"asset"`
}

func (r *httpRegistry) LookupByDigest(ctx context.Context, digestHex string) (*watermark.AssetRecord, error) {
	u := fmt.Sprintf("%s/assets/by-digest/%s", r.baseURL, url.PathEscape(digestHex))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, watermark.ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry: unexpected status %d", resp.StatusCode)
	}

	var out digestLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.Found {
		return nil, watermark.ErrNoMatch
	}
	return &out.Asset, nil
}

type phashLookupResponse struct {
	Candidates []watermark.PhashCandidate `json:"candidates"`
}

func (r *httpRegistry) LookupByPhash(ctx context.Context, phashHex string) ([]watermark.PhashCandidate, error) {
	u := fmt.Sprintf("%s/assets/by-phash/%s", r.baseURL, url.PathEscape(phashHex))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, watermark.ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry: unexpected status %d", resp.StatusCode)
	}

	var out phashLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Candidates) == 0 {
		return nil, watermark.ErrNoMatch
	}
	return out.Candidates, nil
}
