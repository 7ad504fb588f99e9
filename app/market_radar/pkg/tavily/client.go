package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
)

const defaultBaseURL = "https://api.tavily.com/search"

// Client Tavily API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 Tavily 客户端，baseURL 为空时使用官方地址
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	resp, err := c.doSearch(ctx, SearchRequest{
		Query:          req.QueryWithHint(),
		MaxResults:     req.MaxResults,
		IncludeDomains: req.AllowedDomains(),
	})
	if err != nil {
		return nil, err
	}

	results := make([]search.Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, search.Result{
			Title:       r.Title,
			Snippet:     r.Content,
			URL:         r.URL,
			DisplayLink: search.DisplayLink(r.URL),
		})
	}
	return &search.Response{Results: results}, nil
}

// SearchRequest Tavily 搜索请求参数
type SearchRequest struct {
	Query          string   `json:"query"`
	SearchDepth    string   `json:"search_depth,omitempty"` // basic or advanced
	Topic          string   `json:"topic,omitempty"`        // general or news
	MaxResults     int      `json:"max_results,omitempty"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

// SearchResponse Tavily 搜索响应
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult 单个搜索结果
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

func (c *Client) doSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if req.SearchDepth == "" {
		req.SearchDepth = "basic"
	}
	if req.MaxResults == 0 {
		req.MaxResults = 5
	}
	// 讨论区内容不是新闻
	if req.Topic == "" {
		req.Topic = "general"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Add("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Add("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}
	return &searchResp, nil
}
