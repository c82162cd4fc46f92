package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
	"go.uber.org/zap"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

var _ ports.ObjectClient = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("server url is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("server url must use http or https")
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{baseURL: baseURL, http: httpClient, logger: logger}, nil
}

func (c *Client) GetObject(ctx context.Context, token string, id domain.ObjectID) (domain.ObjectData, error) {
	query := url.Values{}
	query.Set("token", token)
	query.Set("objid", string(id))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/objdata", query), nil)
	if err != nil {
		return domain.ObjectData{}, fmt.Errorf("create request: %w", err)
	}

	body, err := c.do(request)
	if err != nil {
		return domain.ObjectData{}, fmt.Errorf("fetch object #%s: %w", id, err)
	}

	var object domain.ObjectData
	if err := json.Unmarshal(body, &object); err != nil {
		return domain.ObjectData{}, fmt.Errorf("decode object #%s: %w", id, err)
	}
	if object.Verbs == nil {
		object.Verbs = map[domain.VerbID]domain.Verb{}
	}

	c.logger.Debug("fetched object",
		zap.String("objid", string(id)),
		zap.String("name", object.Name),
		zap.Int("verbs", len(object.Verbs)),
	)

	return object, nil
}

func (c *Client) UpdateVerbCode(ctx context.Context, locator domain.Locator, code string) (string, error) {
	if locator.VerbID == "" {
		return "", domain.ErrNoVerbSelected
	}

	query := url.Values{}
	query.Set("token", locator.Token)
	query.Set("objid", string(locator.ObjectID))
	query.Set("verbid", string(locator.VerbID))

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/codeupdate", query), strings.NewReader(code))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "text/plain;charset=UTF-8")

	body, err := c.do(request)
	if err != nil {
		return "", fmt.Errorf("update verb %s on #%s: %w", locator.VerbID, locator.ObjectID, err)
	}

	c.logger.Info("updated verb code",
		zap.String("objid", string(locator.ObjectID)),
		zap.String("verbid", string(locator.VerbID)),
		zap.Int("bytes", len(code)),
	)

	return string(body), nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	return c.baseURL + path + "?" + encodeOrdered(query, "token", "objid", "verbid")
}

// encodeOrdered keeps the parameter order the world server documents.
func encodeOrdered(query url.Values, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := query[key]; !ok {
			continue
		}
		parts = append(parts, url.QueryEscape(key)+"="+url.QueryEscape(query.Get(key)))
	}
	return strings.Join(parts, "&")
}

func (c *Client) do(request *http.Request) ([]byte, error) {
	response, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		c.logger.Warn("world server returned error",
			zap.String("path", request.URL.Path),
			zap.Int("status", response.StatusCode),
		)
		return nil, &domain.StatusError{Code: response.StatusCode, Body: string(body)}
	}

	return body, nil
}
