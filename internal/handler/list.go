package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/dto"
	apperrors "github.com/Payphone-Digital/storefront/internal/errors"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/screen"
	"github.com/Payphone-Digital/storefront/internal/view"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListPage renders the List Screen shell. The header and the sort toggle
// do not wait on the catalog; the grid is loaded from ListFragment.
func (h *ProductHandler) ListPage(c *gin.Context) {
	sort := bindSortOrder(c)

	page := h.newPage(c, "ListTitle")
	page.FragmentURL = constants.RouteListFragment + "?" + url.Values{
		constants.QueryParamSort: []string{sort.String()},
	}.Encode()

	h.renderPage(c, http.StatusOK, view.PageList, view.ListPage{Page: page, Sort: sort})
}

// ListFragment fetches the collection once and renders the product grid or
// the error indicator.
func (h *ProductHandler) ListFragment(c *gin.Context) {
	ctx := c.Request.Context()
	sort := bindSortOrder(c)
	log := logger.FromContext(ctx).With(zap.Stringer("sort", sort))

	state, products, err := mountScreen[[]model.ProductSummary](c, "list", func(ctx context.Context) ([]model.ProductSummary, error) {
		return h.catalog.ListProducts(ctx, sort)
	})

	switch state {
	case screen.StatePending:
		log.Debug("Client left before the collection arrived", zap.Error(err))
		c.Abort()
	case screen.StateFailed:
		log.Warn("Product list unavailable", zap.Error(err))
		h.renderFragment(c, apperrors.ToHTTPStatus(err), view.FragmentError, h.newPage(c, ""))
	default:
		log.Debug("Product list loaded", zap.Int("count", len(products)))
		h.renderFragment(c, http.StatusOK, view.FragmentProductGrid, view.ProductGrid{
			Page:     h.newPage(c, ""),
			Products: products,
		})
	}
}

func bindSortOrder(c *gin.Context) model.SortOrder {
	var query dto.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return model.DefaultSortOrder
	}
	return query.SortOrder()
}
