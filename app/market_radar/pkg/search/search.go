package search

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrUnconfigured 讨论搜索缺少凭据，属于可预期的降级状态
var ErrUnconfigured = errors.New("search: discussion search not configured")

// DefaultDomains 讨论类站点白名单
var DefaultDomains = []string{
	"reddit.com",
	"quora.com",
	"stackexchange.com",
	"stackoverflow.com",
	"news.ycombinator.com",
	"indiehackers.com",
	"medium.com",
}

// Searcher 讨论区搜索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用搜索请求
type Request struct {
	Query string
	// AudienceHint 目标人群描述，由各实现决定如何附加到查询
	AudienceHint string
	MaxResults   int
	// Domains 站点白名单，为空时使用 DefaultDomains
	Domains []string
}

// Response 通用搜索响应
type Response struct {
	Results []Result
}

// Result 单条搜索结果
type Result struct {
	Title       string
	Snippet     string
	URL         string
	DisplayLink string
}

// AllowedDomains 返回请求的白名单
func (r *Request) AllowedDomains() []string {
	if len(r.Domains) > 0 {
		return r.Domains
	}
	return DefaultDomains
}

// QueryWithHint 查询词加上人群提示
func (r *Request) QueryWithHint() string {
	q := strings.TrimSpace(r.Query)
	if hint := strings.TrimSpace(r.AudienceHint); hint != "" {
		q += " " + hint
	}
	return q
}

// DisplayLink 从 URL 中取出去掉 www. 的主机名
func DisplayLink(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SiteFilter 把白名单拼成 (site:a OR site:b) 形式的查询条件
func SiteFilter(domains []string) string {
	if len(domains) == 0 {
		return ""
	}
	parts := make([]string, 0, len(domains))
	for _, d := range domains {
		parts = append(parts, "site:"+d)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}
