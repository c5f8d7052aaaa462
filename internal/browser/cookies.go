package browser

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/browserutils/kooky"
	_ "github.com/browserutils/kooky/browser/all"
	"github.com/browserutils/kooky/browser/firefox"
	"github.com/browserutils/kooky/browser/netscape"
)

// Installed reads the cookies of a browser installed for the current user.
// Every profile of the browser is searched, cookies of the default profile
// win when two profiles hold the same cookie.
type Installed struct {
	Browser Browser
}

func (i Installed) Cookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	cookies, err := kooky.ReadCookies(ctx, domainFilters(domain)...)
	if len(cookies) == 0 && err != nil {
		return nil, fmt.Errorf("%s cookies: %w", i.Browser, err)
	}
	picked := pickCookies(cookies, i.Browser, domain)
	if len(picked) == 0 {
		return nil, fmt.Errorf("no %s cookies found for %s, visit the site with %s first", i.Browser, domain, i.Browser)
	}
	return picked, nil
}

// FirefoxProfile reads one Firefox profile. Path is either the profile
// directory or its cookies.sqlite.
type FirefoxProfile struct {
	Path string
}

func (f FirefoxProfile) Cookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	path := f.Path
	if filepath.Ext(path) != ".sqlite" {
		path = filepath.Join(path, "cookies.sqlite")
	}
	cookies, err := firefox.ReadCookies(ctx, path, domainFilters(domain)...)
	if err != nil {
		return nil, fmt.Errorf("firefox profile: %w", err)
	}
	return pickCookies(cookies, "", domain), nil
}

// CookieFile reads a Netscape cookies.txt, the format browser extensions
// export.
type CookieFile struct {
	Path string
}

func (f CookieFile) Cookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	cookies, _, err := netscape.ReadCookies(ctx, f.Path, domainFilters(domain)...)
	if err != nil {
		return nil, fmt.Errorf("cookie file: %w", err)
	}
	return pickCookies(cookies, "", domain), nil
}

func domainFilters(domain string) []kooky.Filter {
	return []kooky.Filter{
		kooky.Valid,
		kooky.DomainHasSuffix(strings.TrimPrefix(domain, ".")),
	}
}

func fromBrowser(cookie *kooky.Cookie, b Browser) bool {
	if b == "" {
		return true
	}
	return cookie.Browser != nil && strings.EqualFold(cookie.Browser.Browser(), string(b))
}

func defaultProfile(cookie *kooky.Cookie) bool {
	return cookie.Browser != nil && cookie.Browser.IsDefaultProfile()
}

// pickCookies keeps the cookies of browser `b` (any browser when empty) that
// are sent to `domain`, one per name, domain and path.
func pickCookies(cookies []*kooky.Cookie, b Browser, domain string) []*http.Cookie {
	var matching []*kooky.Cookie
	for _, cookie := range cookies {
		if cookie == nil || !fromBrowser(cookie, b) || !matchesDomain(cookie.Domain, domain) {
			continue
		}
		matching = append(matching, cookie)
	}
	sort.SliceStable(matching, func(i, j int) bool {
		return defaultProfile(matching[i]) && !defaultProfile(matching[j])
	})

	seen := map[string]bool{}
	var out []*http.Cookie
	for _, cookie := range matching {
		key := cookie.Name + "\x00" + strings.TrimPrefix(cookie.Domain, ".") + "\x00" + cookie.Path
		if seen[key] {
			continue
		}
		seen[key] = true
		c := cookie.Cookie
		out = append(out, &c)
	}
	return out
}
