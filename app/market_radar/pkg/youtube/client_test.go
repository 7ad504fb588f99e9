package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "test-key", 2, 10, option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestSearchComments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/search"):
			if r.URL.Query().Get("q") != "freelance burnout" || r.URL.Query().Get("type") != "video" {
				t.Errorf("unexpected search query %s", r.URL.RawQuery)
			}
			_, _ = io.WriteString(w, `{"items":[{"id":{"kind":"youtube#video","videoId":"v1"}},{"id":{"kind":"youtube#video","videoId":"v2"}}]}`)
		case strings.HasSuffix(r.URL.Path, "/commentThreads"):
			if r.URL.Query().Get("videoId") == "v2" {
				// comments disabled
				w.WriteHeader(http.StatusForbidden)
				_, _ = io.WriteString(w, `{"error":{"code":403,"message":"commentsDisabled"}}`)
				return
			}
			_, _ = io.WriteString(w, `{"items":[
				{"id":"t1","snippet":{"videoId":"v1","topLevelComment":{"id":"c1","snippet":{"textDisplay":"I'm so burned out","authorDisplayName":"ann","likeCount":7,"publishedAt":"2024-05-01T10:00:00Z"}}}},
				{"id":"t2","snippet":{"videoId":"v1","topLevelComment":{"id":"c2","snippet":{"textDisplay":"same here","authorDisplayName":"bob","likeCount":1}}}}
			]}`)
		default:
			http.NotFound(w, r)
		}
	})

	comments, err := c.SearchComments(context.Background(), "freelance burnout", 10)
	if err != nil {
		t.Fatalf("SearchComments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("len(comments) = %d, want 2", len(comments))
	}
	first := comments[0]
	if first.ID != "c1" || first.VideoID != "v1" || first.Author != "ann" || first.LikeCount != 7 || first.Text != "I'm so burned out" {
		t.Errorf("first comment = %+v", first)
	}
}

func TestSearchCommentsRespectsMax(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/search") {
			_, _ = io.WriteString(w, `{"items":[{"id":{"videoId":"v1"}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"items":[
			{"snippet":{"topLevelComment":{"id":"c1","snippet":{"textDisplay":"a"}}}},
			{"snippet":{"topLevelComment":{"id":"c2","snippet":{"textDisplay":"b"}}}},
			{"snippet":{"topLevelComment":{"id":"c3","snippet":{"textDisplay":"c"}}}}
		]}`)
	})

	comments, err := c.SearchComments(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("SearchComments: %v", err)
	}
	if len(comments) != 2 {
		t.Errorf("len(comments) = %d, want 2", len(comments))
	}
}

func TestSearchCommentsSearchFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := c.SearchComments(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error")
	}
}

func TestSearchCommentsAllVideosFail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/search") {
			_, _ = io.WriteString(w, `{"items":[{"id":{"videoId":"v1"}}]}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
	})
	if _, err := c.SearchComments(context.Background(), "q", 5); err == nil {
		t.Fatal("expected error when every video fails")
	}
}
