package mega

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidLinkFormat means the pasted link is missing the #F!token!key
// fragment. User input error, reported verbatim, never retried.
var ErrInvalidLinkFormat = errors.New("invalid MEGA folder URL format")

var folderFragmentRe = regexp.MustCompile(`#F!([a-zA-Z0-9_-]+)!([a-zA-Z0-9_-]+)`)

// IsFolderLink reports whether text looks like a shared MEGA folder link:
// the host is mega.nz (or its www alias) and the path carries the folder
// marker. Anything that fails to parse is simply not a folder link.
func IsFolderLink(text string) bool {
	u, err := url.Parse(text)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	if host != "mega.nz" && host != "www.mega.nz" {
		return false
	}
	return strings.Contains(u.Path, "/folder/")
}

// ParseFolderLink extracts the (token, key) pair from the legacy
// #F!<token>!<key> fragment. Links without that fragment are rejected with
// ErrInvalidLinkFormat before any network call is made.
func ParseFolderLink(raw string) (FolderLink, error) {
	m := folderFragmentRe.FindStringSubmatch(raw)
	if m == nil {
		return FolderLink{}, ErrInvalidLinkFormat
	}
	return FolderLink{Raw: raw, Token: m[1], Key: m[2]}, nil
}
