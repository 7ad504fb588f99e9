package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
)

// Enricher 按 URL 抓取正文
type Enricher func(ctx context.Context, url string) (string, error)

// ReadabilityEnricher 使用 go-readability 提取正文，请求跟随 ctx 取消
func ReadabilityEnricher(timeout time.Duration) Enricher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	return func(ctx context.Context, rawURL string) (string, error) {
		pageURL, err := url.Parse(rawURL)
		if err != nil {
			return "", fmt.Errorf("解析 URL 失败: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return "", fmt.Errorf("创建请求失败: %w", err)
		}
		req.Header.Set("User-Agent", "market-radar/1.0")

		resp, err := client.Do(req)
		if err != nil {
			return "", fmt.Errorf("请求页面失败: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("页面返回状态码 %d", resp.StatusCode)
		}

		article, err := readability.FromReader(resp.Body, pageURL)
		if err != nil {
			return "", fmt.Errorf("提取正文失败: %w", err)
		}
		return article.TextContent, nil
	}
}
