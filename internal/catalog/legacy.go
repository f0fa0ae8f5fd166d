package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bookpost-erp/bookpost/internal/envelope"
	"github.com/bookpost-erp/bookpost/internal/platform/httpx"
)

// LegacyClient talks to the old catalogue backend. Newer deployments expose
// /api/products; older ones only have /api/books. A 404 on the products
// endpoint is not an error here, it means the installation predates the
// products API, so the client degrades to the books endpoint.
type LegacyClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewLegacyClient constructs a client for the legacy catalogue upstream.
func NewLegacyClient(baseURL, token string) *LegacyClient {
	return &LegacyClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Enabled reports whether an upstream is configured at all.
func (c *LegacyClient) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// legacyBook is the wire shape of the old books endpoint.
type legacyBook struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Subject   string   `json:"subject"`
	Code      string   `json:"code"`
	ClassName string   `json:"class_name"`
	Price     *float64 `json:"price"`
	MRP       *float64 `json:"mrp"`
}

// SearchProducts queries the upstream products endpoint, falling back to the
// books endpoint when products is unavailable (404).
func (c *LegacyClient) SearchProducts(ctx context.Context, q string) (SearchResult, error) {
	raw, err := c.get(ctx, "/api/products", q)
	if err == nil {
		return SearchResult{Products: envelope.DecodeList[Product](raw)}, nil
	}
	if !isUnavailable(err) {
		return SearchResult{}, err
	}

	raw, err = c.get(ctx, "/api/books", q)
	if err != nil {
		return SearchResult{}, err
	}
	books := envelope.DecodeList[legacyBook](raw)
	products := make([]Product, 0, len(books))
	for _, b := range books {
		book := Book{ID: b.ID, Title: b.Title, Subject: b.Subject, Code: b.Code, ClassName: b.ClassName}
		products = append(products, Product{
			ID:           b.ID,
			Type:         KindBook,
			Name:         b.Title,
			SellingPrice: b.Price,
			MRP:          b.MRP,
			IsActive:     true,
			Book:         &book,
		})
	}
	return SearchResult{Products: products, Degraded: true}, nil
}

type unavailableError struct {
	path string
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("legacy endpoint %s unavailable", e.path)
}

func isUnavailable(err error) bool {
	var ue *unavailableError
	return errors.As(err, &ue)
}

func (c *LegacyClient) get(ctx context.Context, path, q string) ([]byte, error) {
	u := c.baseURL + path
	if q != "" {
		u += "?q=" + url.QueryEscape(q)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("legacy catalogue: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("legacy catalogue: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &unavailableError{path: path}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, httpx.ErrUnauthorized
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("legacy catalogue: %s", upstreamMessage(body, resp.StatusCode))
	}
	return body, nil
}

// upstreamMessage surfaces the server's own message text verbatim when the
// error body carries one, falling back to the status code.
func upstreamMessage(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("request failed with status %d", status)
}
