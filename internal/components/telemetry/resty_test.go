package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.messages[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Seller", "s1")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>offers</html>"))
	}))
	defer server.Close()

	tel := NewTestAPI()
	output := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentResty(client, "test", tel, output)

	res, err := client.R().
		SetHeader("Accept-Language", "en").
		SetBody("wants=1").
		Post(server.URL + "/en/Magic/Wants")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	debug := tel.Reports(KindDebug)
	require.Len(t, debug, 2)
	require.Equal(t, report_resty_request, debug[0].ID)
	require.Equal(t, report_resty_response, debug[1].ID)
	require.Empty(t, tel.Reports(KindBroken))

	message, ok := output.messages["1"]
	require.True(t, ok)
	require.True(t, strings.HasPrefix(message, "> POST "+server.URL+"/en/Magic/Wants\n"))
	require.Contains(t, message, "Accept-Language: en\n")
	require.Contains(t, message, "wants=1")
	require.Contains(t, message, "< 200 ")
	require.Contains(t, message, "X-Seller: s1\n")
	require.True(t, strings.HasSuffix(message, "<html>offers</html>"))
}

func TestInstrumentRestyError(t *testing.T) {
	tel := NewTestAPI()
	client := resty.New()
	InstrumentResty(client, "test", tel, nil)

	_, err := client.R().Get("http://127.0.0.1:1/unreachable")
	require.Error(t, err)
	require.Len(t, tel.Reports(KindBroken), 1)
}
