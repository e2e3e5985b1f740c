package gw2api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Category names a collection endpoint of the v2 API.
type Category string

const (
	Specializations Category = "specializations"
	Skills          Category = "skills"
	Traits          Category = "traits"
)

// DefaultBaseURL is the public Guild Wars 2 v2 API root.
const DefaultBaseURL = "https://api.guildwars2.com/v2"

// MaxChunkSize is the largest ids= batch the API accepts for every category.
// Traits reject anything bigger, so the same bound is used everywhere.
const MaxChunkSize = 200

// Options tune a Client. Zero values select the defaults.
type Options struct {
	// ChunkSize caps the number of ids per batch request (1..MaxChunkSize).
	ChunkSize int
	// Lang is sent as the lang query parameter when non-empty.
	Lang string
	// Timeout bounds each HTTP request. Zero means no timeout.
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client fetches id catalogs and full records from the v2 API.
type Client struct {
	baseURL    string
	chunkSize  int
	lang       string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client targeting the given API base URL.
func New(baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.ChunkSize <= 0 || opts.ChunkSize > MaxChunkSize {
		opts.ChunkSize = MaxChunkSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		chunkSize: opts.ChunkSize,
		lang:      opts.Lang,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		logger: opts.Logger,
	}
}

// IDs returns every identifier of the category, in the order the API lists them.
func (c *Client) IDs(ctx context.Context, category Category) ([]uint64, error) {
	reqURL := c.endpoint(category, nil)
	body, err := c.get(ctx, category, reqURL)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, &FetchError{Category: category, URL: reqURL, Err: errors.New("response is not an array")}
	}

	elems := res.Array()
	ids := make([]uint64, 0, len(elems))
	for i, v := range elems {
		id, ok := parseID(v)
		if !ok {
			return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("element %d (%s) is not an unsigned integer", i, v.Raw)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Records returns the full record for each id. Requests are split into
// chunks of at most the configured chunk size and issued one after another.
// The result holds one record per requested id, in request order.
func (c *Client) Records(ctx context.Context, category Category, ids []uint64) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0, len(ids))
	n := 0
	for chunk := range slices.Chunk(ids, c.chunkSize) {
		c.logger.Debug("fetching chunk", "category", string(category), "chunk", n, "size", len(chunk))
		recs, err := c.fetchChunk(ctx, category, chunk)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
		n++
	}
	return records, nil
}

// fetchChunk requests one batch and re-associates the returned records with
// the requested ids by their id field, since the API does not promise to keep
// request order.
func (c *Client) fetchChunk(ctx context.Context, category Category, chunk []uint64) ([]json.RawMessage, error) {
	reqURL := c.endpoint(category, chunk)
	body, err := c.get(ctx, category, reqURL)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	if !res.IsArray() {
		return nil, &FetchError{Category: category, URL: reqURL, Err: errors.New("response is not an array")}
	}

	byID := make(map[uint64]json.RawMessage, len(chunk))
	for i, v := range res.Array() {
		if !v.IsObject() {
			return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("element %d is not an object", i)}
		}
		id, ok := parseID(v.Get("id"))
		if !ok {
			return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("element %d has no numeric id", i)}
		}
		byID[id] = json.RawMessage(v.Raw)
	}

	out := make([]json.RawMessage, len(chunk))
	for i, id := range chunk {
		rec, ok := byID[id]
		if !ok {
			return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("no record returned for id %d", id)}
		}
		out[i] = rec
	}
	return out, nil
}

func (c *Client) endpoint(category Category, ids []uint64) string {
	var params []string
	if ids != nil {
		strs := make([]string, len(ids))
		for i, id := range ids {
			strs[i] = strconv.FormatUint(id, 10)
		}
		params = append(params, "ids="+strings.Join(strs, ","))
	}
	if c.lang != "" {
		params = append(params, "lang="+url.QueryEscape(c.lang))
	}

	u := c.baseURL + "/" + string(category)
	if len(params) > 0 {
		u += "?" + strings.Join(params, "&")
	}
	return u
}

func (c *Client) get(ctx context.Context, category Category, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Category: category, URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	// 206 is returned when only some of the requested ids exist.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, &FetchError{Category: category, URL: reqURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Category: category, URL: reqURL, Err: fmt.Errorf("reading body: %w", err)}
	}
	if !gjson.ValidBytes(body) {
		return nil, &FetchError{Category: category, URL: reqURL, Err: errors.New("response is not valid JSON")}
	}
	return body, nil
}

// parseID accepts only JSON numbers that are non-negative integers.
func parseID(v gjson.Result) (uint64, bool) {
	if v.Type != gjson.Number {
		return 0, false
	}
	id, err := strconv.ParseUint(v.Raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
