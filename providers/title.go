package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/net/html"
)

// TitleProvider resolves a URL to its page title. Non-HTML documents are
// skipped; for sites that put a generic string in <title> (YouTube,
// Pleroma) the og:title meta wins.
type TitleProvider struct {
	client *http.Client
}

func NewTitleProvider(timeout time.Duration) TitleProvider {
	return TitleProvider{client: newHTTPClient(timeout)}
}

func (p TitleProvider) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
	if !isHTML(resp.Header.Get("Content-Type"), body) {
		return "", nil
	}

	title, ogTitle := extractTitles(body)
	switch title {
	case "YouTube", "Pleroma":
		if ogTitle != "" {
			return ogTitle, nil
		}
	}
	return title, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(contentType, "html") {
		return true
	}
	return mimetype.Detect(body).Is("text/html")
}

// extractTitles walks the document once and returns the <title> text and
// the og:title meta content, either possibly empty.
func extractTitles(body []byte) (title, ogTitle string) {
	tokenizer := html.NewTokenizer(strings.NewReader(string(body)))
	inTitle := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(title), strings.TrimSpace(ogTitle)
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "title":
				inTitle = true
			case "meta":
				var property, content string
				for _, attr := range token.Attr {
					switch attr.Key {
					case "property", "name":
						property = attr.Val
					case "content":
						content = attr.Val
					}
				}
				if property == "og:title" {
					ogTitle = content
				}
			}
		case html.EndTagToken:
			if tokenizer.Token().Data == "title" {
				inTitle = false
			}
		case html.TextToken:
			if inTitle {
				title += tokenizer.Token().Data
			}
		}
	}
}
