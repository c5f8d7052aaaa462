// Package browser provides what a session needs to pass as the user's own
// browser: its cookies for the marketplace and a matching User-Agent.
// Cardmarket compares the two, a mismatch makes the login page answer 403.
package browser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type Browser string

const (
	CHROME   Browser = "chrome"
	CHROMIUM Browser = "chromium"
	EDGE     Browser = "edge"
	FIREFOX  Browser = "firefox"
	SAFARI   Browser = "safari"
	OPERA    Browser = "opera"
)

var browsers = []Browser{CHROME, CHROMIUM, EDGE, FIREFOX, SAFARI, OPERA}

func Parse(s string) (Browser, error) {
	for _, b := range browsers {
		if string(b) == strings.ToLower(strings.TrimSpace(s)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("browser '%s' is not supported", s)
}

var systemInfo = map[string]string{
	"darwin":  "Macintosh; Intel Mac OS X 10_15_7",
	"windows": "Windows NT 10.0; Win64; x64",
	"linux":   "X11; Linux x86_64",
}

const chromeUserAgent = "Mozilla/5.0 (%s) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"

// UserAgent returns the User-Agent the browser sends on the given
// operating system (a runtime.GOOS value).
func (b Browser) UserAgent(goos string) (string, error) {
	system, ok := systemInfo[goos]
	if !ok {
		return "", fmt.Errorf("operating system '%s' is not supported", goos)
	}

	switch b {
	case CHROME, CHROMIUM, SAFARI:
		return fmt.Sprintf(chromeUserAgent, system), nil
	case FIREFOX:
		return fmt.Sprintf("Mozilla/5.0 (%s; rv:109.0) Gecko/20100101 Firefox/109.0", system), nil
	case EDGE:
		return fmt.Sprintf(chromeUserAgent, system) + " Edg/112.0.1722.68", nil
	case OPERA:
		return fmt.Sprintf(chromeUserAgent, system) + " OPR/98.0.4759.3", nil
	}
	return "", fmt.Errorf("browser '%s' is not supported", b)
}

// CookieSource reads the cookies a browser holds for a domain.
type CookieSource interface {
	Cookies(ctx context.Context, domain string) ([]*http.Cookie, error)
}

// matchesDomain reports whether a cookie stored for `host` is sent to
// `domain`, both may carry the leading dot of a domain cookie.
func matchesDomain(host, domain string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), ".")
	domain = strings.TrimPrefix(strings.ToLower(domain), ".")
	return host == domain || strings.HasSuffix(host, "."+domain)
}
