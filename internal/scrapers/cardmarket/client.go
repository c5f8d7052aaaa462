// client.go contains the session level logic: rate limiting, retries, login
// and the classification of responses. Turning bodies into records is left
// to the Parse* functions.

package cardmarket

import (
	"bytes"
	"cmwizard/internal/components/assert"
	"cmwizard/internal/components/telemetry"
	"cmwizard/pkg/htmlutil"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

const (
	report_client_get   = "client.get"
	report_client_login = "client.login"
	report_client_dump  = "client.dump"
)

// ClientOptions configures a session. Zero values fall back to the
// defaults of the live site.
type ClientOptions struct {
	BaseURL   string
	Language  SiteLanguage
	Game      Game
	UserAgent string
	// Cookies are the marketplace cookies of the browser that UserAgent
	// claims to be, they are only kept in memory.
	Cookies         []*http.Cookie
	RateLimitPeriod time.Duration
	Retry           *RetryPolicy
	Timeout         time.Duration
	Diagnostics     Diagnostics
	// Output receives the full text of every request when set.
	Output telemetry.InstrumentOutput
}

// Client is one authenticated session bound to a site language and a game.
type Client struct {
	BaseURL  *url.URL
	Http     *resty.Client
	Language SiteLanguage
	Game     Game

	diagnostics Diagnostics
	tel         telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Language == "" {
		opts.Language = LANG_ENGLISH
	}
	if opts.Game == "" {
		opts.Game = GAME_MAGIC
	}
	if opts.RateLimitPeriod == 0 {
		opts.RateLimitPeriod = time.Second
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	retry := DefaultRetryPolicy()
	if opts.Retry != nil {
		retry = *opts.Retry
	}

	parsedBaseUrl, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseURL)
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	jar.SetCookies(parsedBaseUrl, sessionCookies(opts.Cookies))
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}
	httpClient.SetHeaders(map[string]string{
		"Accept":          "*/*",
		"Accept-Language": "*",
		"Cache-Control":   "no-cache",
		"DNT":             "1",
	})
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))
	httpClient.SetTimeout(opts.Timeout)

	// one request per period, waiting requests are never dropped
	rateLimiter := rate.NewLimiter(rate.Every(opts.RateLimitPeriod), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	retry.apply(httpClient, tel)
	telemetry.InstrumentResty(httpClient, "cardmarket", tel, opts.Output)

	return &Client{
		BaseURL:     parsedBaseUrl,
		Http:        httpClient,
		Language:    opts.Language,
		Game:        opts.Game,
		diagnostics: opts.Diagnostics,
		tel:         tel,
	}, nil
}

// sessionCookies turns the browser's domain cookies into host cookies of the
// base url so that they are sent no matter what host the session talks to.
func sessionCookies(cookies []*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		copied := *c
		copied.Domain = ""
		out = append(out, &copied)
	}
	return out
}

// prefix is the path every page of the session lives under.
func (c *Client) prefix() string {
	return prefix(c.Language, c.Game)
}

func (c *Client) dump(name string, body []byte) string {
	path, err := c.diagnostics.Dump(name, body)
	if err != nil {
		c.tel.ReportBroken(report_client_dump, fmt.Errorf("write %s: %w", path, err))
	}
	return path
}

// Get fetches a page under the session's language and game prefix and
// returns its body when the status is 200.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	c.tel.ReportDebug(report_client_get, endpoint, query.Encode())

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(c.prefix() + endpoint)
	if err != nil {
		if ctx.Err() == nil {
			c.tel.ReportBroken(report_client_get, fmt.Errorf("fetch: %w", err), endpoint)
		}
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}

	switch res.StatusCode() {
	case http.StatusOK:
		return res.Body(), nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.tel.ReportWarning(report_client_get, endpoint, res.Status())
		return nil, fmt.Errorf("get %s: %w", endpoint, ErrAuthExpired)
	case http.StatusTooManyRequests:
		c.tel.ReportWarning(report_client_get, endpoint, res.Status())
		return nil, fmt.Errorf("get %s: %w", endpoint, ErrRateLimited)
	}

	path := c.dump(dumpName(endpoint)+"_page_response.html", res.Body())
	c.tel.ReportBroken(report_client_get, fmt.Errorf("unexpected status %d", res.StatusCode()), endpoint)
	return nil, fmt.Errorf(
		"%w: %s returned status %d, check %s",
		ErrUnexpectedPage, endpoint, res.StatusCode(), path,
	)
}

var loginTokenRegex = regexp.MustCompile(`name="__cmtkn" value="(\w+)"`)

// Credentials are only ever sent in the login request.
type Credentials struct {
	Username string
	Password string
	// Browser is the name of the browser the cookies came from, it is
	// shown when cardmarket rejects the browser fingerprint.
	Browser string
}

// Login logs the session in with the login form, the session cookies of
// the browser have to be installed already.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	c.tel.ReportDebug(report_client_login, creds.Username)

	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpointLogin)
	if err != nil {
		return fmt.Errorf("%w: request login page: %w", ErrLoginFailed, err)
	}
	switch res.StatusCode() {
	case http.StatusOK:
	case http.StatusForbidden:
		c.tel.ReportWarning(report_client_login, "login page forbidden", creds.Browser)
		return fmt.Errorf(
			"%w: please open cardmarket.com in %s",
			ErrLoginFailed, creds.Browser,
		)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", ErrLoginFailed, ErrRateLimited)
	default:
		path := c.dump("login_page_response.html", res.Body())
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login page status %d", res.StatusCode()))
		return fmt.Errorf("%w: unexpected page error, check %s", ErrLoginFailed, path)
	}

	groups := loginTokenRegex.FindSubmatch(res.Body())
	if groups == nil {
		path := c.dump("login_page_response.html", res.Body())
		c.tel.ReportBroken(report_client_login, fmt.Errorf("token not found"))
		return fmt.Errorf("%w: no token found, check %s", ErrLoginFailed, path)
	}

	res, err = c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"__cmtkn":      string(groups[1]),
			"referalPage":  c.prefix(),
			"username":     creds.Username,
			"userPassword": creds.Password,
		}).
		Post(c.prefix() + endpointUserLogin)
	if err != nil {
		return fmt.Errorf("%w: login request: %w", ErrLoginFailed, err)
	}
	if res.StatusCode() != http.StatusOK {
		path := c.dump("login_response.txt", res.Body())
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login status %d", res.StatusCode()))
		return fmt.Errorf("%w: unexpected login error, check %s", ErrLoginFailed, path)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return fmt.Errorf("%w: parse login response: %w", ErrLoginFailed, err)
	}
	banner := doc.Find("h4.alert-heading").First()
	if banner.Length() > 0 {
		message := bannerText(banner)
		c.tel.ReportWarning(report_client_login, message)
		return fmt.Errorf("%w: %s", ErrLoginFailed, message)
	}

	return nil
}

// bannerText joins the text pieces of an alert with ". ", ex.
// `<h4>Error<br>Wrong password</h4>` -> "Error. Wrong password."
func bannerText(banner *goquery.Selection) string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := htmlutil.CleanText(n.Data)
			if text != "" {
				parts = append(parts, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range banner.Nodes {
		walk(n)
	}
	return strings.Join(parts, ". ") + "."
}

// Close drops the session cookies, the client must not be used afterwards.
func (c *Client) Close() {
	jar, err := cookiejar.New(nil)
	if err == nil {
		c.Http.SetCookieJar(jar)
	}
	c.Http.GetClient().CloseIdleConnections()
}
