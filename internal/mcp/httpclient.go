package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/wodboard/internal/leaderboard"
	"github.com/claude/wodboard/internal/models"
	"github.com/claude/wodboard/internal/storage"
	"github.com/google/uuid"
)

// HTTPClient implements DataSource by calling the wodboard REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the box server (accessed over Tailscale). The server
// resolves the athlete from the tailnet connection, so userID arguments
// are ignored.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, v any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) GetWod(ctx context.Context, id uuid.UUID) (*models.WodRow, error) {
	var row models.WodRow
	if err := c.get(ctx, "/api/v1/wods/"+id.String(), nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *HTTPClient) GetWodByDate(ctx context.Context, day time.Time) (*models.WodRow, error) {
	var row models.WodRow
	if err := c.get(ctx, "/api/v1/wods/date/"+day.Format("2006-01-02"), nil, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListWods ignores limit; the REST API pages by its own fixed size, which
// matches wodsPageSize.
func (c *HTTPClient) ListWods(ctx context.Context, page, _ int) ([]models.WodRow, int, error) {
	var resp struct {
		Wods  []models.WodRow `json:"wods"`
		Total int             `json:"total"`
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if err := c.get(ctx, "/api/v1/wods", params, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Wods, resp.Total, nil
}

// ListResults walks every leaderboard page and returns the underlying
// results. They arrive ranked rather than in submission order; callers rank
// again, which is stable.
func (c *HTTPClient) ListResults(ctx context.Context, wodID uuid.UUID, division models.Division) ([]models.ResultRow, error) {
	var out []models.ResultRow
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("page", strconv.Itoa(page))
		if division != "" {
			params.Set("rx", string(division))
		}
		var board leaderboard.Board
		if err := c.get(ctx, "/api/v1/wods/"+wodID.String()+"/results", params, &board); err != nil {
			return nil, err
		}
		for _, e := range board.Entries {
			out = append(out, e.ResultRow)
		}
		if page >= board.TotalPages {
			return out, nil
		}
	}
}

// ListPRs returns the best entry per movement, which is what the REST API
// exposes for the full list.
func (c *HTTPClient) ListPRs(ctx context.Context, _ int) ([]models.PRRow, error) {
	var rows []models.PRRow
	if err := c.get(ctx, "/api/v1/prs", nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) ListPRHistory(ctx context.Context, _ int, movement string) ([]models.PRRow, error) {
	params := url.Values{}
	params.Set("movement", movement)
	var rows []models.PRRow
	if err := c.get(ctx, "/api/v1/prs", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
