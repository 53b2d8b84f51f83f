package curation

import (
	"net/url"
	"strings"
)

const unknownSource = "Unknown"

// DomainInfo identifies the site an article link points at.
type DomainInfo struct {
	Domain      string `json:"domain"`
	DisplayName string `json:"display_name"`
}

// ResolveDomain derives the canonical domain ("www." stripped, lowercased) and its
// first label from link. Links that are not absolute URLs with a host resolve to an
// empty domain named "Unknown".
func ResolveDomain(link string) DomainInfo {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !u.IsAbs() || u.Hostname() == "" {
		return DomainInfo{DisplayName: unknownSource}
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	name, _, _ := strings.Cut(host, ".")

	return DomainInfo{Domain: host, DisplayName: name}
}
