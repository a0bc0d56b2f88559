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

// DetailPage renders the Detail Screen shell with a whole-screen loading
// indicator.
func (h *ProductHandler) DetailPage(c *gin.Context) {
	var uri dto.ProductURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.NotFound(c)
		return
	}

	page := h.newPage(c, "DetailTitle")
	page.FragmentURL = constants.RouteListFragment + "/" + url.PathEscape(uri.ID)

	h.renderPage(c, http.StatusOK, view.PageDetail, view.DetailPage{Page: page, ID: uri.ProductID()})
}

// DetailFragment fetches one product and renders it or the error indicator.
// The identifier is passed to the catalog as received.
func (h *ProductHandler) DetailFragment(c *gin.Context) {
	ctx := c.Request.Context()

	var uri dto.ProductURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.renderFragment(c, apperrors.ToHTTPStatus(apperrors.ErrNotFound), view.FragmentError, h.newPage(c, ""))
		return
	}
	id := uri.ProductID()
	log := logger.FromContext(ctx).With(zap.Stringer("product_id", id))

	state, product, err := mountScreen[*model.Product](c, "detail", func(ctx context.Context) (*model.Product, error) {
		return h.catalog.GetProduct(ctx, id)
	})

	switch state {
	case screen.StatePending:
		log.Debug("Client left before the product arrived", zap.Error(err))
		c.Abort()
	case screen.StateFailed:
		log.Warn("Product unavailable", zap.Error(err))
		h.renderFragment(c, apperrors.ToHTTPStatus(err), view.FragmentError, h.newPage(c, ""))
	default:
		h.renderFragment(c, http.StatusOK, view.FragmentProductDetail, view.ProductDetail{
			Page:    h.newPage(c, ""),
			Product: product,
		})
	}
}
