package editpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Submit posts a buffer to an edit page URL the same way the page's save
// command does.
func Submit(ctx context.Context, client *http.Client, pageURL string, code string) (string, error) {
	if client == nil {
		client = http.DefaultClient
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, pageURL, strings.NewReader(code))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	request.ContentLength = int64(len(code))
	request.Header.Set("Content-type", "text/plain")
	request.Header.Set("Content-length", strconv.Itoa(len(code)))
	request.Close = true

	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return "", fmt.Errorf("status %d: %s", response.StatusCode, strings.TrimSpace(string(body)))
	}

	return string(body), nil
}
