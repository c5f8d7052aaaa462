package commands

import (
	"cmwizard/internal/browser"
	"cmwizard/internal/components/configutil"
	"cmwizard/internal/scrapers/cardmarket"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// shared settings
		username: "buyer",
		password: "hunter2",
		game: "yugioh",
		rate_limit_period: "2s",
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		password: "local-secret",
		max_retries: 0,
	}`), 0600))

	cfg, err := configutil.ReadConfig[Config](path)
	require.NoError(t, err)
	cfg.setDefaults()

	require.Equal(t, "buyer", cfg.Username)
	require.Equal(t, "local-secret", cfg.Password)
	require.Equal(t, "edge", cfg.Browser)
	require.Equal(t, "en", cfg.Language)
	require.Equal(t, 200, cfg.ShippingCost)
	require.NotNil(t, cfg.MaxRetries)
	require.Equal(t, 0, *cfg.MaxRetries)

	opts, err := cfg.clientOptions()
	require.NoError(t, err)
	require.Equal(t, cardmarket.GAME_YUGIOH, opts.Game)
	require.Equal(t, cardmarket.LANG_ENGLISH, opts.Language)
	require.Equal(t, 2*time.Second, opts.RateLimitPeriod)
	require.Equal(t, 0, opts.Retry.MaxRetries)
	require.Equal(t, 32*time.Second, opts.Retry.Backoff(1))
}

func TestClientOptionsErrors(t *testing.T) {
	testCases := []Config{
		{Language: "xx", Game: "Magic"},
		{Language: "en", Game: "chess"},
		{Language: "en", Game: "Magic", RateLimitPeriod: "soon"},
		{Language: "en", Game: "Magic", RetryBackoff: "-1s"},
	}
	for _, cfg := range testCases {
		_, err := cfg.clientOptions()
		require.Error(t, err, "%+v", cfg)
	}

	backoff := Config{Language: "de", Game: "Pokemon", RetryBackoff: "5s"}
	opts, err := backoff.clientOptions()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, opts.Retry.Backoff(3))
}

func TestCookieSource(t *testing.T) {
	source := Config{CookieFile: "cookies.txt", FirefoxProfile: "profile"}.cookieSource(browser.CHROME)
	require.Equal(t, browser.CookieFile{Path: "cookies.txt"}, source)

	source = Config{FirefoxProfile: "profile"}.cookieSource(browser.FIREFOX)
	require.Equal(t, browser.FirefoxProfile{Path: "profile"}, source)

	// every supported browser is read from its own cookie store
	for _, name := range []string{"chrome", "chromium", "edge", "firefox", "safari", "opera"} {
		b, err := browser.Parse(name)
		require.NoError(t, err)
		require.Equal(t, browser.Installed{Browser: b}, Config{}.cookieSource(b), name)
	}
}

func TestLoginOptions(t *testing.T) {
	cookies := filepath.Join(t.TempDir(), "cookies.txt")
	expiry := time.Now().Add(time.Hour).Unix()
	require.NoError(t, os.WriteFile(cookies, []byte(fmt.Sprintf(
		".cardmarket.com\tTRUE\t/\tTRUE\t%d\tPHPSESSID\ts3ssion\n", expiry,
	)), 0600))

	cfg := Config{
		Username:   "buyer",
		Password:   "hunter2",
		Browser:    "edge",
		CookieFile: cookies,
	}
	cfg.setDefaults()

	opts, err := cfg.loginOptions(context.Background(), "windows")
	require.NoError(t, err)
	require.Equal(t, cardmarket.Credentials{Username: "buyer", Password: "hunter2", Browser: "edge"}, opts.Credentials)
	require.Contains(t, opts.Client.UserAgent, "Windows NT 10.0")
	require.Contains(t, opts.Client.UserAgent, "Edg/")
	require.Len(t, opts.Client.Cookies, 1)
	require.Equal(t, "PHPSESSID", opts.Client.Cookies[0].Name)

	_, err = Config{Browser: "firefox"}.loginOptions(context.Background(), "linux")
	require.ErrorContains(t, err, "username and password")
}
