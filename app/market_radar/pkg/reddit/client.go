package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/keywords"
	"github.com/iWorld-y/market_radar/app/market_radar/pkg/model"
)

const (
	defaultBaseURL   = "https://www.reddit.com"
	defaultUserAgent = "market-radar/1.0"
	maxThemes        = 5
	// tierRatio 一方命中数超过另一方的倍数时判定倾向
	tierRatio = 1.5
)

// Client Reddit 公开搜索接口客户端，只输出聚合结果，不保留帖子原文
type Client struct {
	baseURL   string
	userAgent string
	limit     int
	client    *http.Client
	tables    *keywords.Tables
}

// NewClient 创建客户端，空值使用默认配置
func NewClient(baseURL, userAgent string, limit int, timeout time.Duration, tables *keywords.Tables) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if tables == nil {
		tables = keywords.Default()
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		limit:     limit,
		client:    &http.Client{Timeout: timeout},
		tables:    tables,
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title    string `json:"title"`
				Selftext string `json:"selftext"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Analyze 搜索 query 并汇总情绪倾向与主题词，主题词不包含 query 与 audienceHint 中的词
func (c *Client) Analyze(ctx context.Context, query, audienceHint string) (model.SentimentAggregate, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("sort", "relevance")
	q.Set("type", "link")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+q.Encode(), nil)
	if err != nil {
		return model.SentimentAggregate{}, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return model.SentimentAggregate{}, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return model.SentimentAggregate{}, fmt.Errorf("reddit api error (status %d): %s", res.StatusCode, string(body))
	}

	var l listing
	if err := json.NewDecoder(res.Body).Decode(&l); err != nil {
		return model.SentimentAggregate{}, fmt.Errorf("decode response failed: %w", err)
	}

	posts := make([]string, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data.Title+" "+child.Data.Selftext)
	}
	exclude := c.tables.SignificantWords(query + " " + audienceHint)
	return Summarize(posts, c.tables, exclude...), nil
}

// Summarize 把帖子文本归约为聚合结果，返回值不含任何原文
func Summarize(posts []string, tables *keywords.Tables, exclude ...string) model.SentimentAggregate {
	if len(posts) == 0 {
		return model.SentimentAggregate{}
	}
	if tables == nil {
		tables = keywords.Default()
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, w := range exclude {
		skip[strings.ToLower(w)] = struct{}{}
	}

	var neg, pos int
	counts := make(map[string]int)
	var order []string
	for _, p := range posts {
		lower := strings.ToLower(p)
		for _, w := range tables.Negative {
			if strings.Contains(lower, w) {
				neg++
			}
		}
		for _, w := range tables.Positive {
			if strings.Contains(lower, w) {
				pos++
			}
		}
		for _, tok := range keywords.Tokenize(lower) {
			if len(tok) <= 3 || tables.IsStopWord(tok) || isNumber(tok) {
				continue
			}
			if _, ok := skip[tok]; ok {
				continue
			}
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	return model.SentimentAggregate{
		Analyzed:   true,
		PostCount:  len(posts),
		Tier:       tier(neg, pos),
		ThemeWords: topThemes(order, counts),
	}
}

func tier(neg, pos int) model.SentimentTier {
	switch {
	case float64(neg) > tierRatio*float64(pos):
		return model.SentimentNegative
	case float64(pos) > tierRatio*float64(neg):
		return model.SentimentPositive
	default:
		return model.SentimentMixed
	}
}

// topThemes 按频次降序取前 5 个，同频按首次出现顺序
func topThemes(order []string, counts map[string]int) []string {
	ranked := slices.Clone(order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})
	if len(ranked) > maxThemes {
		ranked = ranked[:maxThemes]
	}
	return ranked
}

func isNumber(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
