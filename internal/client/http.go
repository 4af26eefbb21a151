package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/RhyVis/uni-remote/internal/catalog"
)

// httpClient implements the Client interface over net/http.
type httpClient struct {
	base     string
	http     *http.Client
	modCache *gocache.Cache
}

// cachedMod is one mod archive held for ETag revalidation.
type cachedMod struct {
	ETag string
	Data []byte
}

func newHTTPClient(cfg Config) *httpClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	var modCache *gocache.Cache
	if cfg.ModCacheTTL > 0 {
		modCache = gocache.New(cfg.ModCacheTTL, cfg.ModCacheTTL/2)
	}

	return &httpClient{
		base:     strings.TrimRight(cfg.BaseURL, "/"),
		http:     hc,
		modCache: modCache,
	}
}

func (c *httpClient) ListAll(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry
	if err := c.getJSON(ctx, "/api/list-all", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *httpClient) ModList(ctx context.Context, entryID, instanceID string) ([]string, error) {
	var mods []string
	if err := c.getJSON(ctx, playPath(entryID, instanceID, "modList.json"), &mods); err != nil {
		return nil, err
	}
	return mods, nil
}

func (c *httpClient) FetchMod(ctx context.Context, modPath string) ([]byte, error) {
	if c.modCache == nil {
		data, _, _, err := c.fetchMod(ctx, modPath, "")
		return data, err
	}

	if hit, ok := c.modCache.Get(modPath); ok {
		cached := hit.(cachedMod)
		data, etag, notModified, err := c.fetchMod(ctx, modPath, cached.ETag)
		if err != nil {
			return nil, err
		}
		if notModified {
			c.modCache.SetDefault(modPath, cached)
			return cached.Data, nil
		}
		c.modCache.SetDefault(modPath, cachedMod{ETag: etag, Data: data})
		return data, nil
	}

	data, etag, _, err := c.fetchMod(ctx, modPath, "")
	if err != nil {
		return nil, err
	}
	if etag != "" {
		c.modCache.SetDefault(modPath, cachedMod{ETag: etag, Data: data})
	}
	return data, nil
}

// fetchMod performs a single conditional GET for a mod archive. When etag is
// set and the server answers 304, notModified is true and data is nil.
func (c *httpClient) fetchMod(ctx context.Context, modPath, etag string) (data []byte, newETag string, notModified bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+modPath, nil)
	if err != nil {
		return nil, "", false, fmt.Errorf("build request: %w", err)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", false, fmt.Errorf("request %s: %w", modPath, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return nil, "", true, nil
	}
	if err := checkStatus(resp); err != nil {
		return nil, "", false, err
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", false, fmt.Errorf("read %s response: %w", modPath, err)
	}
	return data, resp.Header.Get("ETag"), false, nil
}

func (c *httpClient) SaveList(ctx context.Context, entryID, instanceID string) ([]string, error) {
	var saves []string
	if err := c.getJSON(ctx, playPath(entryID, instanceID, "save-sync/list"), &saves); err != nil {
		return nil, err
	}
	return saves, nil
}

func (c *httpClient) FetchSave(ctx context.Context, entryID, instanceID, saveID string) (string, error) {
	path := playPath(entryID, instanceID, "save-sync/access/"+url.PathEscape(saveID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s response: %w", path, err)
	}
	return string(content), nil
}

func (c *httpClient) UploadSave(ctx context.Context, entryID, instanceID, code, alias string) error {
	payload, err := json.Marshal(struct {
		Code  string `json:"code"`
		Alias string `json:"alias"`
	}{Code: code, Alias: alias})
	if err != nil {
		return fmt.Errorf("encode save payload: %w", err)
	}

	path := playPath(entryID, instanceID, "save-sync/access")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *httpClient) DeleteSave(ctx context.Context, entryID, instanceID, saveID string) error {
	path := playPath(entryID, instanceID, "save-sync/access/"+url.PathEscape(saveID))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

// getJSON fetches path and decodes the JSON response into out.
func (c *httpClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// playPath builds a /play route with escaped entry and instance segments.
func playPath(entryID, instanceID, rest string) string {
	return "/play/" + url.PathEscape(entryID) + "/" + url.PathEscape(instanceID) + "/" + rest
}

// checkStatus maps non-2xx responses to sentinel errors, carrying the
// server's message along.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrModsDisabled, msg)
	default:
		return fmt.Errorf("server returned %s: %s", resp.Status, msg)
	}
}
