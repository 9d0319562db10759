package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bootbot/errors"
)

// WeatherProvider asks wttr.in for a one-line report. The query is the
// location as the user typed it.
type WeatherProvider struct {
	baseURL string
	client  *http.Client
}

func NewWeatherProvider(baseURL string, timeout time.Duration) WeatherProvider {
	return WeatherProvider{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (p WeatherProvider) Fetch(ctx context.Context, query string) (string, error) {
	location := strings.TrimSpace(query)
	if location == "" {
		return "", errors.ErrEmptyQuery
	}

	endpoint := fmt.Sprintf("%s/%s?format=3", p.baseURL, url.PathEscape(location))
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
	return strings.TrimSpace(string(body)), nil
}
