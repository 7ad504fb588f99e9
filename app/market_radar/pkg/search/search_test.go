package search

import "testing"

func TestDisplayLink(t *testing.T) {
	tests := map[string]string{
		"https://www.Reddit.com/r/freelance/comments/1": "reddit.com",
		"https://news.ycombinator.com/item?id=1":        "news.ycombinator.com",
		"::not a url":                                   "",
	}
	for in, want := range tests {
		if got := DisplayLink(in); got != want {
			t.Errorf("DisplayLink(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestHelpers(t *testing.T) {
	req := &Request{Query: " freelance burnout ", AudienceHint: "designers"}
	if got := req.QueryWithHint(); got != "freelance burnout designers" {
		t.Errorf("QueryWithHint = %q", got)
	}
	if got := req.AllowedDomains(); len(got) != len(DefaultDomains) {
		t.Errorf("AllowedDomains = %v", got)
	}
	req.Domains = []string{"quora.com"}
	if got := req.AllowedDomains(); len(got) != 1 {
		t.Errorf("AllowedDomains = %v", got)
	}
}

func TestSiteFilter(t *testing.T) {
	if got := SiteFilter([]string{"reddit.com", "quora.com"}); got != "(site:reddit.com OR site:quora.com)" {
		t.Errorf("SiteFilter = %q", got)
	}
	if got := SiteFilter(nil); got != "" {
		t.Errorf("SiteFilter(nil) = %q", got)
	}
}
