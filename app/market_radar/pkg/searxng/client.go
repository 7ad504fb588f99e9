package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
)

// Client SearXNG API 客户端
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 SearXNG 客户端，timeout 单位为秒
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: t},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchResponse SearXNG 响应结构
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult SearXNG 单条结果
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search 执行搜索，白名单通过 site: 条件表达
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", req.QueryWithHint()+" "+search.SiteFilter(req.AllowedDomains()))
	q.Set("format", "json")
	q.Set("categories", "general")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	results := make([]search.Result, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		if req.MaxResults > 0 && len(results) >= req.MaxResults {
			break
		}
		results = append(results, search.Result{
			Title:       r.Title,
			Snippet:     r.Content,
			URL:         r.URL,
			DisplayLink: search.DisplayLink(r.URL),
		})
	}
	return &search.Response{Results: results}, nil
}
