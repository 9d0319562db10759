package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Weather_Returns_The_One_Liner(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/tokyo", r.URL.Path)
		req.Equal("3", r.URL.Query().Get("format"))
		fmt.Fprintln(w, "tokyo: ⛅️ +18°C")
	}))
	defer server.Close()

	provider := NewWeatherProvider(server.URL, 2*time.Second)
	out, err := provider.Fetch(context.Background(), "tokyo")
	req.NoError(err)
	req.Equal("tokyo: ⛅️ +18°C", out)
}

func Test_Weather_Rejects_Empty_Location(t *testing.T) {
	req := require.New(t)
	provider := NewWeatherProvider("http://unused", 2*time.Second)
	_, err := provider.Fetch(context.Background(), "  ")
	req.Error(err)
}

func Test_Price_Formats_The_Quote(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("bitcoin", r.URL.Query().Get("ids"))
		fmt.Fprint(w, `{"bitcoin":{"usd":64123.5}}`)
	}))
	defer server.Close()

	provider := NewPriceProvider(server.URL, 2*time.Second)
	out, err := provider.Fetch(context.Background(), "Bitcoin")
	req.NoError(err)
	req.Equal("bitcoin: $64123.50", out)
}

func Test_Price_Unknown_Coin_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	provider := NewPriceProvider(server.URL, 2*time.Second)
	out, err := provider.Fetch(context.Background(), "nocoin")
	req.NoError(err)
	req.Equal("no quote for nocoin", out)
}

func Test_Title_Extracts_Page_Title(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><title>Example Domain</title></head><body></body></html>`)
	}))
	defer server.Close()

	provider := NewTitleProvider(2 * time.Second)
	title, err := provider.Fetch(context.Background(), server.URL)
	req.NoError(err)
	req.Equal("Example Domain", title)
}

func Test_Title_Prefers_OG_Title_For_Generic_Sites(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>YouTube</title>`+
			`<meta property="og:title" content="A Specific Video"/></head></html>`)
	}))
	defer server.Close()

	provider := NewTitleProvider(2 * time.Second)
	title, err := provider.Fetch(context.Background(), server.URL)
	req.NoError(err)
	req.Equal("A Specific Video", title)
}

func Test_Title_Skips_Non_HTML(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x1f, 0x8b, 0x08, 0x00, 0x00})
	}))
	defer server.Close()

	provider := NewTitleProvider(2 * time.Second)
	title, err := provider.Fetch(context.Background(), server.URL)
	req.NoError(err)
	req.Empty(title)
}

func Test_Title_Reports_HTTP_Errors(t *testing.T) {
	req := require.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewTitleProvider(2 * time.Second)
	_, err := provider.Fetch(context.Background(), server.URL)
	req.Error(err)
}
