package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bootbot/errors"
)

// PriceProvider quotes a coin in USD from a CoinGecko-shaped simple-price
// endpoint: {"bitcoin":{"usd":64123.5}}.
type PriceProvider struct {
	baseURL string
	client  *http.Client
}

func NewPriceProvider(baseURL string, timeout time.Duration) PriceProvider {
	return PriceProvider{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (p PriceProvider) Fetch(ctx context.Context, query string) (string, error) {
	coin := strings.ToLower(strings.TrimSpace(query))
	if coin == "" {
		return "", errors.ErrEmptyQuery
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		p.baseURL, url.QueryEscape(coin))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", err
	}

	body, err := readBounded(resp.Body)
	if err != nil {
		return "", err
	}

	var quotes map[string]map[string]float64
	if err := json.Unmarshal(body, &quotes); err != nil {
		return "", err
	}
	quote, ok := quotes[coin]
	if !ok {
		return fmt.Sprintf("no quote for %s", coin), nil
	}
	return fmt.Sprintf("%s: $%.2f", coin, quote["usd"]), nil
}
