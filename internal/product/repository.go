package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"storefront-be/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Repository reads the remote catalog. Unlike Service it reports failures.
type Repository interface {
	List(ctx context.Context, opts ListOptions) ([]Product, error)
	// Get returns nil, nil when the catalog has no such product.
	Get(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
}

type httpRepository struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func NewHTTPRepository(baseURL string) Repository {
	return newHTTPRepository(baseURL, &http.Client{Timeout: 10 * time.Second})
}

func newHTTPRepository(baseURL string, client *http.Client) *httpRepository {
	return &httpRepository{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		breaker:    newBreaker("catalog"),
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 5
		},
		// a missing product is an answer, and a caller hanging up says nothing
		// about the catalog
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrProductNotFound) ||
				errors.Is(err, errCallerGone)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.L().Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func (r *httpRepository) List(ctx context.Context, opts ListOptions) ([]Product, error) {
	opts = opts.Normalize()
	q := url.Values{}
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("skip", strconv.Itoa(opts.Skip))

	return r.fetchList(ctx, "/products?"+q.Encode())
}

func (r *httpRepository) Search(ctx context.Context, query string) ([]Product, error) {
	q := url.Values{}
	q.Set("q", query)

	return r.fetchList(ctx, "/products/search?"+q.Encode())
}

func (r *httpRepository) Get(ctx context.Context, id string) (*Product, error) {
	body, err := r.fetch(ctx, "/products/"+url.PathEscape(id))
	if errors.Is(err, ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p Product
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return &p, nil
}

func (r *httpRepository) fetchList(ctx context.Context, path string) ([]Product, error) {
	body, err := r.fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	var list productList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	if list.Products == nil {
		list.Products = []Product{}
	}
	return list.Products, nil
}

// errCallerGone marks failures caused by the caller's own context.
var errCallerGone = errors.New("caller context done")

func (r *httpRepository) fetch(ctx context.Context, path string) ([]byte, error) {
	body, err := r.breaker.Execute(func() ([]byte, error) {
		body, err := r.do(ctx, path)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", errCallerGone, err)
		}
		return body, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	return body, err
}

func (r *httpRepository) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrProductNotFound
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return body, nil
}
