package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBody = `[
	{"id":1,"title":"Fjallraven - Foldsack No. 1 Backpack","price":109.95,"category":"men's clothing","image":"https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg"},
	{"id":2,"title":"Mens Casual Premium Slim Fit T-Shirts","price":22.3,"category":"men's clothing","image":"https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg"}
]`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 2 * time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClient_ListProducts_SendsSortVerbatim(t *testing.T) {
	for _, order := range []model.SortOrder{model.SortAscending, model.SortDescending} {
		t.Run(order.String(), func(t *testing.T) {
			var gotPath, gotSort, gotAgent string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotSort = r.URL.Query().Get("sort")
				gotAgent = r.UserAgent()
				_, _ = w.Write([]byte(listBody))
			}))

			products, err := client.ListProducts(context.Background(), order)
			require.NoError(t, err)

			assert.Equal(t, "/products", gotPath)
			assert.Equal(t, order.String(), gotSort)
			assert.Equal(t, "storefront/1.0.0", gotAgent)
			assert.Len(t, products, 2)
		})
	}
}

func TestClient_ListProducts_DecodesSummaries(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listBody))
	}))

	products, err := client.ListProducts(context.Background(), model.SortAscending)
	require.NoError(t, err)

	want := []model.ProductSummary{
		{
			ID:       "1",
			Title:    "Fjallraven - Foldsack No. 1 Backpack",
			Category: "men's clothing",
			Price:    decimal.RequireFromString("109.95"),
			Image:    "https://fakestoreapi.com/img/81fPKd-2AYL._AC_SL1500_.jpg",
		},
		{
			ID:       "2",
			Title:    "Mens Casual Premium Slim Fit T-Shirts",
			Category: "men's clothing",
			Price:    decimal.RequireFromString("22.3"),
			Image:    "https://fakestoreapi.com/img/71-3HjGNDUL._AC_SY879._SX._UX._SY._UY_.jpg",
		},
	}
	if diff := cmp.Diff(want, products); diff != "" {
		t.Errorf("ListProducts() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_GetProduct(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id":5,"title":"Naga Bracelet","price":695,"description":"From our Legends Collection.","category":"jewelery","image":"https://example.test/5.jpg","rating":{"rate":4.6,"count":400}}`))
	}))

	product, err := client.GetProduct(context.Background(), "5")
	require.NoError(t, err)

	assert.Equal(t, "/products/5", gotPath)
	want := &model.Product{
		ProductSummary: model.ProductSummary{
			ID:       "5",
			Title:    "Naga Bracelet",
			Category: "jewelery",
			Price:    decimal.RequireFromString("695"),
			Image:    "https://example.test/5.jpg",
		},
		Description: "From our Legends Collection.",
		Rating:      model.Rating{Rate: decimal.RequireFromString("4.6"), Count: 400},
	}
	if diff := cmp.Diff(want, product); diff != "" {
		t.Errorf("GetProduct() mismatch (-want +got):\n%s", diff)
	}
}

func TestClient_GetProduct_EscapesIdentifier(t *testing.T) {
	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"id":"a b"}`))
	}))

	_, err := client.GetProduct(context.Background(), "a b")
	require.NoError(t, err)
	assert.Equal(t, "/products/a%20b", gotPath)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.NotFound(w, r)
			},
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
			},
		},
		{
			name: "empty body for unknown id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidBody)
			},
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"id":`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidBody)
				assert.ErrorContains(t, err, "decode body")
			},
		},
		{
			name: "null body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("null\n"))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidBody)
			},
		},
		{
			name: "record without id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"title":"","price":0,"rating":{"rate":0,"count":0}}`))
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidBody)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.GetProduct(context.Background(), "999")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_ListProducts_NullBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	}))

	products, err := client.ListProducts(context.Background(), model.SortAscending)

	assert.ErrorIs(t, err, ErrInvalidBody)
	assert.Nil(t, products)
}

func TestIsUpstreamFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"transport", fmt.Errorf("http error: %w", errors.New("connection refused")), true},
		{"deadline", fmt.Errorf("http error: %w", context.DeadlineExceeded), true},
		{"server error", &StatusError{StatusCode: http.StatusInternalServerError}, true},
		{"bad gateway", &StatusError{StatusCode: http.StatusBadGateway}, true},
		{"not found", &StatusError{StatusCode: http.StatusNotFound}, false},
		{"bad request", &StatusError{StatusCode: http.StatusBadRequest}, false},
		{"invalid body", fmt.Errorf("decode body: %w: null", ErrInvalidBody), false},
		{"cancelled", fmt.Errorf("http error: %w", context.Canceled), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUpstreamFailure(tt.err))
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: baseURL, Timeout: time.Second}, nil)
	require.NoError(t, err)

	_, err = client.ListProducts(context.Background(), model.SortAscending)
	require.Error(t, err)
	assert.ErrorContains(t, err, "http error")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewClient(Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	require.NoError(t, err)

	_, err = client.ListProducts(context.Background(), model.SortAscending)
	require.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listBody))
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx, model.SortAscending)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "fakestoreapi.com", "://bad"} {
		_, err := NewClient(Config{BaseURL: raw}, nil)
		assert.Error(t, err, raw)
	}
}
