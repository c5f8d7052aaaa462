package commands

import (
	"cmwizard/internal/browser"
	"cmwizard/internal/components/telemetry"
	"cmwizard/internal/scrapers/cardmarket"
	"cmwizard/internal/wizard"
	"context"
	"fmt"
	"time"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// Browser is the browser the cookies come from, its User-Agent is sent
	// along with them.
	Browser string `json:"browser"`
	// CookieFile is a Netscape cookies.txt export, it takes precedence over
	// FirefoxProfile.
	CookieFile     string `json:"cookie_file"`
	FirefoxProfile string `json:"firefox_profile"`

	BaseURL  string `json:"base_url"`
	Language string `json:"language"`
	Game     string `json:"game"`

	// ShippingCost is the estimated shipping cost per seller in euro cents.
	ShippingCost    int    `json:"shipping_cost"`
	RateLimitPeriod string `json:"rate_limit_period"`
	RetryBackoff    string `json:"retry_backoff"`
	MaxRetries      *int   `json:"max_retries"`

	// DiagnosticsDir receives the pages that could not be read.
	DiagnosticsDir string `json:"diagnostics_dir"`
	// HttpLogDir receives every request and response when set.
	HttpLogDir string `json:"http_log_dir"`
	// Database is the run history, runs are not saved when empty.
	Database string `json:"database"`
}

func (c *Config) setDefaults() {
	if c.Browser == "" {
		c.Browser = string(browser.EDGE)
	}
	if c.Language == "" {
		c.Language = string(cardmarket.LANG_ENGLISH)
	}
	if c.Game == "" {
		c.Game = string(cardmarket.GAME_MAGIC)
	}
	if c.ShippingCost == 0 {
		c.ShippingCost = wizard.DefaultShippingCost
	}
}

func parseDuration(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}

func (c Config) site() (cardmarket.SiteLanguage, cardmarket.Game, error) {
	lang, err := cardmarket.ParseSiteLanguage(c.Language)
	if err != nil {
		return "", "", err
	}
	game, err := cardmarket.ParseGame(c.Game)
	if err != nil {
		return "", "", err
	}
	return lang, game, nil
}

// clientOptions builds the session options, cookies and User-Agent are
// filled in by loginOptions.
func (c Config) clientOptions() (cardmarket.ClientOptions, error) {
	lang, game, err := c.site()
	if err != nil {
		return cardmarket.ClientOptions{}, err
	}
	period, err := parseDuration("rate_limit_period", c.RateLimitPeriod)
	if err != nil {
		return cardmarket.ClientOptions{}, err
	}

	retry := cardmarket.DefaultRetryPolicy()
	backoff, err := parseDuration("retry_backoff", c.RetryBackoff)
	if err != nil {
		return cardmarket.ClientOptions{}, err
	}
	if backoff > 0 {
		retry.Backoff = cardmarket.ConstantBackoff(backoff)
	}
	if c.MaxRetries != nil {
		retry.MaxRetries = *c.MaxRetries
	}

	opts := cardmarket.ClientOptions{
		BaseURL:         c.BaseURL,
		Language:        lang,
		Game:            game,
		RateLimitPeriod: period,
		Retry:           &retry,
		Diagnostics:     cardmarket.Diagnostics{Dir: c.DiagnosticsDir},
	}
	if c.HttpLogDir != "" {
		output, err := telemetry.NewFilesystemOutput(c.HttpLogDir)
		if err != nil {
			return cardmarket.ClientOptions{}, fmt.Errorf("http_log_dir: %w", err)
		}
		opts.Output = output
	}
	return opts, nil
}

// cookieSource prefers an explicit cookie file or Firefox profile over the
// cookie stores of the installed browser.
func (c Config) cookieSource(b browser.Browser) browser.CookieSource {
	if c.CookieFile != "" {
		return browser.CookieFile{Path: c.CookieFile}
	}
	if c.FirefoxProfile != "" {
		return browser.FirefoxProfile{Path: c.FirefoxProfile}
	}
	return browser.Installed{Browser: b}
}

func (c Config) loginOptions(ctx context.Context, goos string) (cardmarket.LoginOptions, error) {
	if c.Username == "" || c.Password == "" {
		return cardmarket.LoginOptions{}, fmt.Errorf("username and password must be set in the config")
	}

	b, err := browser.Parse(c.Browser)
	if err != nil {
		return cardmarket.LoginOptions{}, err
	}
	userAgent, err := b.UserAgent(goos)
	if err != nil {
		return cardmarket.LoginOptions{}, err
	}

	cookies, err := c.cookieSource(b).Cookies(ctx, cardmarket.CookieDomain)
	if err != nil {
		return cardmarket.LoginOptions{}, fmt.Errorf("read cookies: %w", err)
	}

	client, err := c.clientOptions()
	if err != nil {
		return cardmarket.LoginOptions{}, err
	}
	client.UserAgent = userAgent
	client.Cookies = cookies

	return cardmarket.LoginOptions{
		Credentials: cardmarket.Credentials{
			Username: c.Username,
			Password: c.Password,
			Browser:  string(b),
		},
		Client: client,
	}, nil
}
