package curation

import "testing"

func TestResolveDomain(t *testing.T) {
	tests := []struct {
		name string
		link string
		want DomainInfo
	}{
		{name: "strips www", link: "https://www.example.com/a", want: DomainInfo{Domain: "example.com", DisplayName: "example"}},
		{name: "lowercases host", link: "https://WWW.BBC.co.uk/news/1", want: DomainInfo{Domain: "bbc.co.uk", DisplayName: "bbc"}},
		{name: "keeps subdomains", link: "https://feeds.npr.org/x", want: DomainInfo{Domain: "feeds.npr.org", DisplayName: "feeds"}},
		{name: "drops port", link: "http://localhost:8080/x", want: DomainInfo{Domain: "localhost", DisplayName: "localhost"}},
		{name: "unparseable", link: "not a url", want: DomainInfo{DisplayName: "Unknown"}},
		{name: "relative", link: "/news/1", want: DomainInfo{DisplayName: "Unknown"}},
		{name: "empty", link: "", want: DomainInfo{DisplayName: "Unknown"}},
		{name: "bad escape", link: "http://%zz", want: DomainInfo{DisplayName: "Unknown"}},
		{name: "no host", link: "mailto:someone@example.com", want: DomainInfo{DisplayName: "Unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDomain(tt.link); got != tt.want {
				t.Fatalf("ResolveDomain(%q) = %#v want %#v", tt.link, got, tt.want)
			}
		})
	}
}
