package customsearch

import (
	"context"
	"fmt"
	"strings"

	cs "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/search"
)

// maxNum Custom Search 单次请求最多返回 10 条
const maxNum = 10

// Client Google 可编程搜索客户端
type Client struct {
	svc *cs.Service
	cx  string
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// NewClient 创建客户端，opts 可追加 option.WithEndpoint 等
func NewClient(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*Client, error) {
	svc, err := cs.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}
	return &Client{svc: svc, cx: cx}, nil
}

// Search 在白名单站点中搜索，人群提示通过 hq 参数附加
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	num := int64(req.MaxResults)
	if num <= 0 || num > maxNum {
		num = maxNum
	}

	q := strings.TrimSpace(req.Query + " " + search.SiteFilter(req.AllowedDomains()))
	call := c.svc.Cse.List().Cx(c.cx).Q(q).Num(num)
	if hint := strings.TrimSpace(req.AudienceHint); hint != "" {
		call = call.Hq(hint)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search: %w", err)
	}

	results := make([]search.Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		display := strings.TrimPrefix(strings.ToLower(item.DisplayLink), "www.")
		if display == "" {
			display = search.DisplayLink(item.Link)
		}
		results = append(results, search.Result{
			Title:       item.Title,
			Snippet:     item.Snippet,
			URL:         item.Link,
			DisplayLink: display,
		})
	}
	return &search.Response{Results: results}, nil
}
