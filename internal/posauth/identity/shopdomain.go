package identity

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

const shopDomainSuffix = ".myshopify.com"

var (
	bareShopName = regexp.MustCompile(`^[a-z0-9-]+$`)
	shopDomain   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)
)

var ErrInvalidShopDomain = errors.New("identity: invalid shop domain")

// NormalizeShopDomain rewrites a shop reference into "<name>.myshopify.com".
// Hostnames are case-insensitive, so the result is always lowercase.
//
//	"acme"                              -> "acme.myshopify.com"
//	"https://acme.myshopify.com/admin"  -> "acme.myshopify.com"
//	"acme.myshopify.com"                -> "acme.myshopify.com"
//	"Acme.MyShopify.com"                -> "acme.myshopify.com"
//
// Anything else is rejected with ErrInvalidShopDomain.
func NormalizeShopDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	var candidate string
	switch {
	case s == "":
		return "", ErrInvalidShopDomain
	case bareShopName.MatchString(s):
		candidate = s + shopDomainSuffix
	case strings.HasPrefix(s, "https://"):
		u, err := url.Parse(s)
		if err != nil {
			return "", ErrInvalidShopDomain
		}
		candidate = u.Hostname()
	case strings.Contains(s, shopDomainSuffix):
		candidate = s
	default:
		return "", ErrInvalidShopDomain
	}

	if !IsShopDomain(candidate) {
		return "", ErrInvalidShopDomain
	}
	return candidate, nil
}

// IsShopDomain reports whether s is already a canonical (lowercase) shop domain.
func IsShopDomain(s string) bool {
	return shopDomain.MatchString(s)
}
