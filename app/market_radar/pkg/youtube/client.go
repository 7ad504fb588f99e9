package youtube

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/iWorld-y/market_radar/app/market_radar/pkg/logger"
)

// Comment 单条视频评论
type Comment struct {
	ID          string
	Text        string
	Author      string
	VideoID     string
	LikeCount   int64
	PublishedAt string
}

// Client YouTube Data API 客户端
type Client struct {
	svc            *yt.Service
	videosPerQuery int64
	perVideo       int64
}

// NewClient 创建客户端，opts 可追加 option.WithEndpoint 等
func NewClient(ctx context.Context, apiKey string, videosPerQuery, commentsPerVideo int, opts ...option.ClientOption) (*Client, error) {
	svc, err := yt.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	if videosPerQuery <= 0 {
		videosPerQuery = 5
	}
	if commentsPerVideo <= 0 {
		commentsPerVideo = 20
	}
	return &Client{svc: svc, videosPerQuery: int64(videosPerQuery), perVideo: int64(commentsPerVideo)}, nil
}

// SearchComments 搜索与 query 相关的视频，再按相关度拉取评论，直到 limit 条。
// 单个视频关闭评论等错误只记录日志；所有视频都失败时返回最后一个错误。
func (c *Client) SearchComments(ctx context.Context, query string, limit int) ([]Comment, error) {
	if limit <= 0 {
		return nil, nil
	}

	videos, err := c.svc.Search.List([]string{"id"}).
		Q(query).
		Type("video").
		MaxResults(c.videosPerQuery).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	var (
		out     []Comment
		lastErr error
		okCalls int
	)
	for _, item := range videos.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		if len(out) >= limit {
			break
		}

		videoID := item.Id.VideoId
		threads, err := c.svc.CommentThreads.List([]string{"snippet"}).
			VideoId(videoID).
			MaxResults(c.perVideo).
			Order("relevance").
			TextFormat("plainText").
			Context(ctx).
			Do()
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			logger.Log.Warnf("拉取视频评论失败 [%s]: %v", videoID, err)
			lastErr = err
			continue
		}
		okCalls++

		for _, th := range threads.Items {
			if th.Snippet == nil || th.Snippet.TopLevelComment == nil || th.Snippet.TopLevelComment.Snippet == nil {
				continue
			}
			s := th.Snippet.TopLevelComment.Snippet
			out = append(out, Comment{
				ID:          th.Snippet.TopLevelComment.Id,
				Text:        s.TextDisplay,
				Author:      s.AuthorDisplayName,
				VideoID:     videoID,
				LikeCount:   s.LikeCount,
				PublishedAt: s.PublishedAt,
			})
			if len(out) >= limit {
				break
			}
		}
	}

	if okCalls == 0 && lastErr != nil {
		return nil, fmt.Errorf("fetch comment threads: %w", lastErr)
	}
	return out, nil
}

// VideoURL 视频地址
func VideoURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
