package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/payment"
	"storefront-be/internal/product"
	"storefront-be/internal/transport"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of product.Service
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context, opts product.ListOptions) []product.Product {
	return m.Called(ctx, opts).Get(0).([]product.Product)
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) *product.Product {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*product.Product)
}

func (m *MockProductService) SearchProducts(ctx context.Context, query string) []product.Product {
	return m.Called(ctx, query).Get(0).([]product.Product)
}

// MockOrderService is a mock implementation of order.Service
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, req order.CheckoutRequest) (*order.CheckoutResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CheckoutResult), args.Error(1)
}

func (m *MockOrderService) GetByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

const testSession = "sess-api"

type testServer struct {
	handler  http.Handler
	products *MockProductService
	orders   *MockOrderService
	carts    *cart.Service
	reg      *metrics.Registry
}

func newTestServer() *testServer {
	ts := &testServer{
		products: new(MockProductService),
		orders:   new(MockOrderService),
		carts:    cart.NewService(cart.NewMemoryStorage(), cart.NewNotifier()),
		reg:      metrics.NewRegistry(),
	}
	ts.handler = NewRouter(Deps{
		Products:   ts.products,
		Carts:      ts.carts,
		Orders:     ts.orders,
		Metrics:    ts.reg,
		CORSOrigin: "http://localhost:3000",
	})
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", testSession)
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer()
	ts.reg.Counter("orders_approved").Inc()

	w := ts.do("GET", "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["metrics"].(map[string]any)["orders_approved"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestProductRoutes(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		ts := newTestServer()
		ts.products.On("ListProducts", mock.Anything, product.ListOptions{Limit: 12, Skip: 24}).
			Return([]product.Product{{ID: 25, Title: "Lipstick", Price: decimal.RequireFromString("12.99")}})

		w := ts.do("GET", "/products?limit=12&skip=24", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"price":12.99`)
		ts.products.AssertExpectations(t)
	})

	t.Run("ListBadParamsUseDefaults", func(t *testing.T) {
		ts := newTestServer()
		ts.products.On("ListProducts", mock.Anything, product.ListOptions{Limit: 30, Skip: 0}).
			Return([]product.Product{})

		w := ts.do("GET", "/products?limit=abc", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"products":[]}`, w.Body.String())
	})

	t.Run("Search", func(t *testing.T) {
		ts := newTestServer()
		ts.products.On("SearchProducts", mock.Anything, "phone").Return([]product.Product{{ID: 1}})

		w := ts.do("GET", "/products/search?q=phone", "")

		assert.Equal(t, http.StatusOK, w.Code)
		ts.products.AssertExpectations(t)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		ts := newTestServer()
		ts.products.On("GetProduct", mock.Anything, "999").Return(nil)

		w := ts.do("GET", "/products/999", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Product not found"}`, w.Body.String())
	})

	t.Run("Get", func(t *testing.T) {
		ts := newTestServer()
		ts.products.On("GetProduct", mock.Anything, "7").Return(&product.Product{ID: 7})

		w := ts.do("GET", "/products/7", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(7), decode(t, w)["id"])
	})
}

const addMascara = `{"item":{"productId":"1","productName":"Mascara","price":10,"selectedSize":"Std","selectedColor":"Default","stock":5},"quantity":2}`

func TestCartRoutes(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do("GET", "/cart", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"subtotal":0,"count":0}`, w.Body.String())
	})

	t.Run("AddUpdateRemove", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do("POST", "/cart/items", addMascara)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, float64(2), body["count"])
		assert.Equal(t, float64(20), body["subtotal"])

		w = ts.do("PUT", "/cart/items/1-Std-Default", `{"quantity":9}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(5), decode(t, w)["count"])

		w = ts.do("DELETE", "/cart/items/1-Std-Default", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), decode(t, w)["count"])
	})

	t.Run("Clear", func(t *testing.T) {
		ts := newTestServer()
		ts.do("POST", "/cart/items", addMascara)

		w := ts.do("DELETE", "/cart", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, ts.carts.Session(testSession).Get(context.Background()))
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do("POST", "/cart/items", `{"item":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("ItemWithoutProduct", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do("POST", "/cart/items", `{"item":{},"quantity":1}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCartEvents_InitialCount(t *testing.T) {
	ts := newTestServer()
	_, err := ts.carts.Session(testSession).Add(context.Background(), cart.Item{ProductID: "1", Price: decimal.NewFromInt(3)}, 2)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(transport.WithSessionID(context.Background(), testSession))
	cancel()
	req := httptest.NewRequest("GET", "/cart/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	NewCartHandler(ts.carts).Events(w, req)

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "event: cart\ndata: {\"count\":2}\n\n")
}

func TestCartEvents_StreamsChanges(t *testing.T) {
	ts := newTestServer()
	ctx, cancel := context.WithCancel(transport.WithSessionID(context.Background(), testSession))
	defer cancel()
	req := httptest.NewRequest("GET", "/cart/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		NewCartHandler(ts.carts).Events(w, req)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	_, err := ts.carts.Session(testSession).Add(context.Background(), cart.Item{ProductID: "9", Price: decimal.NewFromInt(1)}, 1)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	cancel()
	<-done

	assert.Contains(t, w.Body.String(), `data: {"count":1}`)
}

func TestCheckoutValidate(t *testing.T) {
	ts := newTestServer()

	t.Run("Invalid", func(t *testing.T) {
		w := ts.do("POST", "/checkout/validate", `{"email":"nope","cvv":"12"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decode(t, w)["errors"].(map[string]any)
		assert.Equal(t, "Please enter a valid email", errs["email"])
		assert.Equal(t, "Full name is required", errs["fullName"])
		assert.Equal(t, "Valid 3-digit CVV required", errs["cvv"])
	})

	t.Run("Valid", func(t *testing.T) {
		form := `{"fullName":"Jane Doe","email":"jane@example.com","phone":"(555) 123-4567",
			"address":"1 Main St","city":"Springfield","state":"IL","zipCode":"62704",
			"cardNumber":"1","expiryDate":"12/99","cvv":"123"}`

		w := ts.do("POST", "/checkout/validate", form)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"valid":true}`, w.Body.String())
	})
}

const checkoutBody = `{
	"customerInfo": {"fullName":"Jane Doe","email":"jane@example.com"},
	"paymentInfo": {"cardNumber":"2","expiryDate":"12/30","cvv":"123"},
	"items": [{"productId":"1","variantId":"1-Std-Default","quantity":2,"price":21.25}],
	"total": 42.50
}`

func TestCheckout(t *testing.T) {
	t.Run("DeclinedStillClearsCart", func(t *testing.T) {
		ts := newTestServer()
		ts.do("POST", "/cart/items", addMascara)
		ts.orders.On("Checkout", mock.Anything, mock.MatchedBy(func(r order.CheckoutRequest) bool {
			return r.PaymentInfo.CardNumber == "2" && r.Total.Equal(decimal.RequireFromString("42.5"))
		})).Return(&order.CheckoutResult{Status: payment.StatusDeclined, OrderNumber: "ORD-123456-001"}, nil)

		w := ts.do("POST", "/checkout", checkoutBody)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"declined","orderNumber":"ORD-123456-001"}`, w.Body.String())
		assert.Empty(t, ts.carts.Session(testSession).Get(context.Background()))
	})

	t.Run("FailureKeepsCart", func(t *testing.T) {
		ts := newTestServer()
		ts.do("POST", "/cart/items", addMascara)
		ts.orders.On("Checkout", mock.Anything, mock.Anything).Return(nil, order.ErrCreateOrder)

		w := ts.do("POST", "/checkout", checkoutBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to create order"}`, w.Body.String())
		assert.Len(t, ts.carts.Session(testSession).Get(context.Background()), 1)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		ts := newTestServer()

		w := ts.do("POST", "/checkout", `not json`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to create order"}`, w.Body.String())
		ts.orders.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything)
	})
}

func TestOrderRoutes(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		ts := newTestServer()
		ts.orders.On("GetByNumber", mock.Anything, "ORD-123456-001").Return(&order.Order{
			OrderNumber: "ORD-123456-001",
			Status:      payment.StatusApproved,
			Total:       decimal.RequireFromString("42.5"),
		}, nil)

		w := ts.do("GET", "/orders/ORD-123456-001", "")

		assert.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, "approved", body["status"])
		assert.Equal(t, 42.5, body["total"])
	})

	t.Run("NotFound", func(t *testing.T) {
		ts := newTestServer()
		ts.orders.On("GetByNumber", mock.Anything, "ORD-000000-000").Return(nil, order.ErrOrderNotFound)

		w := ts.do("GET", "/orders/ORD-000000-000", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Order not found"}`, w.Body.String())
	})

	t.Run("Error", func(t *testing.T) {
		ts := newTestServer()
		ts.orders.On("GetByNumber", mock.Anything, "ORD-1").Return(nil, errors.New("db down"))

		w := ts.do("GET", "/orders/ORD-1", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"Internal Server Error"}`, w.Body.String())
	})
}

func TestRateLimitOnCheckout(t *testing.T) {
	ts := newTestServer()
	ts.orders.On("Checkout", mock.Anything, mock.Anything).Return(nil, order.ErrCreateOrder)

	codes := make([]int, 0, 8)
	for i := 0; i < 8; i++ {
		codes = append(codes, ts.do("POST", "/checkout", checkoutBody).Code)
	}

	assert.Contains(t, codes, http.StatusTooManyRequests)
}

func TestRateLimitOnCheckout_CookielessClient(t *testing.T) {
	ts := newTestServer()
	ts.orders.On("Checkout", mock.Anything, mock.Anything).Return(nil, order.ErrCreateOrder)

	rejected := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("POST", "/checkout", strings.NewReader(checkoutBody))
		req.RemoteAddr = "10.0.0.1:1234"
		if i%2 == 0 {
			req.Header.Set("X-Session-ID", fmt.Sprintf("rotated-%d", i))
		}
		w := httptest.NewRecorder()
		ts.handler.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			rejected++
		}
	}

	assert.GreaterOrEqual(t, rejected, 40)

	req := httptest.NewRequest("POST", "/checkout", strings.NewReader(checkoutBody))
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
