package cardmarket

import (
	"cmwizard/internal/components/telemetry"
	"context"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func loggedInService(t *testing.T, site *fakeSite) (*Service, ClientOptions) {
	service := NewService(telemetry.NewTestAPI())
	opts := testClientOptions(t, site)
	err := service.Login(context.Background(), LoginOptions{
		Credentials: Credentials{Username: "user", Password: "pass", Browser: "firefox"},
		Client:      opts,
	})
	require.NoError(t, err)
	t.Cleanup(service.Logout)
	return service, opts
}

func TestServiceNoSession(t *testing.T) {
	service := NewService(telemetry.NewTestAPI())
	_, err := service.WantsLists(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	require.Equal(t, SiteLanguage(""), service.Language())
}

func TestServiceLoginFailureKeepsNoSession(t *testing.T) {
	site := newFakeSite(t)
	service := NewService(telemetry.NewTestAPI())

	err := service.Login(context.Background(), LoginOptions{
		Credentials: Credentials{Username: "user", Password: "wrong"},
		Client:      testClientOptions(t, site),
	})
	require.ErrorIs(t, err, ErrLoginFailed)

	_, err = service.WantsLists(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}

func TestServicePages(t *testing.T) {
	site := newFakeSite(t)

	var lock sync.Mutex
	queries := map[string]url.Values{}
	record := func(body []byte) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			lock.Lock()
			queries[r.URL.Path] = r.URL.Query()
			lock.Unlock()
			w.Write(body)
		}
	}
	site.mux.HandleFunc("GET /en/YuGiOh/Wants/14582411", record(wantsListHtml))
	site.mux.HandleFunc("GET /en/YuGiOh/Cards/A-Feather-of-the-Phoenix", record(cardHtml))
	site.mux.HandleFunc("GET /en/YuGiOh/Users/wkleebe1/Offers/Singles", record(sellerOffersHtml))

	service, _ := loggedInService(t, site)
	ctx := context.Background()
	require.Equal(t, LANG_ENGLISH, service.Language())

	lists, err := service.WantsLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists.Items, 2)

	list, err := service.WantsList(ctx, "14582411")
	require.NoError(t, err)
	require.Len(t, list.Items, 2)

	card, err := service.Card(ctx, CardQueryFromItem(list.Items[0]))
	require.NoError(t, err)
	require.Len(t, card.Offers, 2)

	offers, err := service.SellerOffers(ctx, "wkleebe1", "14582411")
	require.NoError(t, err)
	require.Equal(t, "wkleebe1", offers.SellerID)

	lock.Lock()
	defer lock.Unlock()
	cardQuery := queries["/en/YuGiOh/Cards/A-Feather-of-the-Phoenix"]
	require.Equal(t, "1,3", cardQuery.Get("language"))
	require.Equal(t, "3", cardQuery.Get("minCondition"))
	require.Equal(t, "Y", cardQuery.Get("isReverseHolo"))
	require.Equal(t, "N", cardQuery.Get("isSigned"))
	require.Equal(t, "14582411", queries["/en/YuGiOh/Users/wkleebe1/Offers/Singles"].Get("idWantsList"))
}

func TestServiceParseFailure(t *testing.T) {
	site := newFakeSite(t)
	site.mux.HandleFunc("GET /en/YuGiOh/Wants/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>maintenance</body></html>"))
	})

	service, opts := loggedInService(t, site)

	_, err := service.WantsList(context.Background(), "1")
	require.ErrorIs(t, err, ErrUnexpectedPage)
	require.Contains(t, err.Error(), "wants_1_page_response.html")

	dumped, err := os.ReadFile(filepath.Join(opts.Diagnostics.Dir, "wants_1_page_response.html"))
	require.NoError(t, err)
	require.Contains(t, string(dumped), "maintenance")
}

func TestServiceLogout(t *testing.T) {
	site := newFakeSite(t)
	service, _ := loggedInService(t, site)

	_, err := service.WantsLists(context.Background())
	require.NoError(t, err)

	service.Logout()
	_, err = service.WantsLists(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
}
