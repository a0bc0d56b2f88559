package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/Payphone-Digital/storefront/internal/constants"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/view"
	"github.com/Payphone-Digital/storefront/pkg/circuit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCatalog struct {
	mu       sync.Mutex
	products []model.ProductSummary
	product  *model.Product
	err      error
	block    bool

	calls   int
	gotSort model.SortOrder
	gotID   model.ProductID
}

func (s *stubCatalog) ListProducts(ctx context.Context, sort model.SortOrder) ([]model.ProductSummary, error) {
	s.mu.Lock()
	s.calls++
	s.gotSort = sort
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.products, s.err
}

func (s *stubCatalog) GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error) {
	s.mu.Lock()
	s.calls++
	s.gotID = id
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.product, s.err
}

func (s *stubCatalog) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestEngine(t *testing.T, catalog CatalogService) *gin.Engine {
	t.Helper()
	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	h := NewProductHandler(catalog, renderer)
	r := gin.New()
	r.Use(middleware.Locale(renderer.MatchLanguage))
	r.GET(constants.RouteList, h.ListPage)
	r.GET(constants.RouteDetail, h.DetailPage)
	r.GET(constants.RouteListFragment, h.ListFragment)
	r.GET(constants.RouteDetailFragment, h.DetailFragment)
	r.NoRoute(h.NotFound)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(w.Body.String()))
	require.NoError(t, err)
	return doc
}

func byClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, a := range n.Attr {
				if a.Key == "class" && containsField(a.Val, class) {
					out = append(out, n)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func containsField(s, field string) bool {
	for _, f := range strings.Fields(s) {
		if f == field {
			return true
		}
	}
	return false
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func sampleProducts(n int) []model.ProductSummary {
	products := make([]model.ProductSummary, n)
	for i := range products {
		products[i] = model.ProductSummary{
			ID:       model.ProductID(fmt.Sprint(i + 1)),
			Title:    fmt.Sprintf("Product %d", i+1),
			Category: "electronics",
			Price:    decimal.NewFromFloat(9.99),
			Image:    fmt.Sprintf("https://img/%d.jpg", i+1),
		}
	}
	return products
}

func fetchFailed() error {
	return apperrors.WrapError(apperrors.ErrFetchFailed, circuit.ErrCircuitOpen)
}

const errorText = "Failed to fetch data. Please try again."

func TestListFragment_RendersOneCardPerProduct(t *testing.T) {
	catalog := &stubCatalog{products: sampleProducts(3)}
	w := get(newTestEngine(t, catalog), "/fragments/products")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, constants.ContentTypeHTML, w.Header().Get(constants.HeaderContentType))

	cards := byClass(parseBody(t, w), "product-card-link")
	require.Len(t, cards, 3)
	for i, card := range cards {
		assert.Equal(t, fmt.Sprintf("/%d", i+1), attrOf(card, "href"))
		assert.Contains(t, textOf(card), "Category: electronics")
		assert.Contains(t, textOf(card), "Price: $9.99")
	}
	assert.Equal(t, 1, catalog.Calls())
}

func TestListFragment_SortResolution(t *testing.T) {
	tests := []struct {
		query string
		want  model.SortOrder
	}{
		{"", model.SortAscending},
		{"?sort=asc", model.SortAscending},
		{"?sort=desc", model.SortDescending},
		{"?sort=DESC", model.SortAscending},
		{"?sort=", model.SortAscending},
		{"?sort=random", model.SortAscending},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			catalog := &stubCatalog{products: sampleProducts(1)}
			w := get(newTestEngine(t, catalog), "/fragments/products"+tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, catalog.gotSort)
		})
	}
}

func TestListFragment_Failure(t *testing.T) {
	catalog := &stubCatalog{err: fetchFailed()}
	w := get(newTestEngine(t, catalog), "/fragments/products?sort=desc")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	doc := parseBody(t, w)
	assert.Equal(t, errorText, textOf(doc))
	assert.Empty(t, byClass(doc, "product-card"))
}

func TestListFragment_EmptyCollection(t *testing.T) {
	w := get(newTestEngine(t, &stubCatalog{}), "/fragments/products")

	require.Equal(t, http.StatusOK, w.Code)
	doc := parseBody(t, w)
	assert.Empty(t, byClass(doc, "product-card"))
	assert.Len(t, byClass(doc, "product-grid-empty"), 1)
}

func TestListFragment_ClientGone(t *testing.T) {
	catalog := &stubCatalog{block: true}
	r := newTestEngine(t, catalog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/fragments/products", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Empty(t, w.Body.String())
}

func TestListPage_Shell(t *testing.T) {
	tests := []struct {
		query     string
		wantSort  string
		wantLabel string
	}{
		{"", "asc", "Ascending"},
		{"?sort=desc", "desc", "Descending"},
		{"?sort=sideways", "asc", "Ascending"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			catalog := &stubCatalog{}
			w := get(newTestEngine(t, catalog), "/"+tt.query)

			require.Equal(t, http.StatusOK, w.Code)
			doc := parseBody(t, w)

			assert.Equal(t, "Product List", textOf(byClass(doc, "screen-title")[0]))
			toggle := byClass(doc, "sort-toggle")
			require.Len(t, toggle, 1)
			assert.Equal(t, tt.wantSort, attrOf(toggle[0], "data-sort"))
			assert.Equal(t, tt.wantLabel, textOf(byClass(doc, "sort-toggle-label")[0]))

			slot := byClass(doc, "fragment-slot")
			require.Len(t, slot, 1)
			assert.Equal(t, "/fragments/products?sort="+tt.wantSort, attrOf(slot[0], "data-fragment"))
			assert.Len(t, byClass(doc, "spinner"), 1)
			assert.Empty(t, byClass(doc, "product-card"))

			assert.Zero(t, catalog.Calls(), "shell must not wait on the catalog")
		})
	}
}

func TestDetailFragment_Success(t *testing.T) {
	catalog := &stubCatalog{product: &model.Product{
		ProductSummary: model.ProductSummary{
			ID:       "5",
			Title:    "John Hardy Bracelet",
			Category: "jewelery",
			Price:    decimal.RequireFromString("695"),
			Image:    "https://img/5.jpg",
		},
		Description: "Inspired by the mythical water dragon",
		Rating:      model.Rating{Rate: decimal.RequireFromString("4.6"), Count: 400},
	}}
	w := get(newTestEngine(t, catalog), "/fragments/products/5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ProductID("5"), catalog.gotID)

	doc := parseBody(t, w)
	assert.Equal(t, "Product Detail", textOf(byClass(doc, "screen-title")[0]))
	assert.Equal(t, "/", attrOf(byClass(doc, "back-link")[0], "href"))
	assert.Equal(t, "jewelery", textOf(byClass(doc, "product-detail-category")[0]))
	assert.Equal(t, "John Hardy Bracelet", textOf(byClass(doc, "product-detail-title")[0]))
	assert.Equal(t, "4.6 (400 rating)", textOf(byClass(doc, "product-detail-rating")[0]))
	assert.Equal(t, "$695", textOf(byClass(doc, "product-detail-price")[0]))
	assert.Equal(t, "Inspired by the mythical water dragon", textOf(byClass(doc, "product-detail-description")[0]))
}

func TestDetailFragment_Failure(t *testing.T) {
	catalog := &stubCatalog{err: fetchFailed()}
	w := get(newTestEngine(t, catalog), "/fragments/products/999999")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, model.ProductID("999999"), catalog.gotID)

	doc := parseBody(t, w)
	assert.Equal(t, errorText, textOf(doc))
	assert.Empty(t, byClass(doc, "product-detail-title"))
	assert.Empty(t, byClass(doc, "back-link"))
}

func TestDetailFragment_IDPassedVerbatim(t *testing.T) {
	catalog := &stubCatalog{err: fetchFailed()}
	get(newTestEngine(t, catalog), "/fragments/products/abc")

	assert.Equal(t, model.ProductID("abc"), catalog.gotID)
}

func TestDetailFragment_Localized(t *testing.T) {
	r := newTestEngine(t, &stubCatalog{err: fetchFailed()})

	req := httptest.NewRequest(http.MethodGet, "/fragments/products/1", nil)
	req.Header.Set(constants.HeaderAcceptLanguage, "id-ID,id;q=0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Gagal mengambil data. Silakan coba lagi.", textOf(parseBody(t, w)))
}

func TestDetailPage_Shell(t *testing.T) {
	catalog := &stubCatalog{}
	w := get(newTestEngine(t, catalog), "/5")

	require.Equal(t, http.StatusOK, w.Code)
	doc := parseBody(t, w)

	slot := byClass(doc, "fragment-slot")
	require.Len(t, slot, 1)
	assert.Equal(t, "/fragments/products/5", attrOf(slot[0], "data-fragment"))
	assert.Len(t, byClass(doc, "spinner"), 1)
	assert.Empty(t, byClass(doc, "product-detail"))
	assert.Zero(t, catalog.Calls())
}

func TestNotFound(t *testing.T) {
	w := get(newTestEngine(t, &stubCatalog{}), "/a/b/c")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, textOf(parseBody(t, w)), "Page not found.")
}
