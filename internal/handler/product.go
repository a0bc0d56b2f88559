package handler

import (
	"bytes"
	"context"
	"net/http"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/model"
	"github.com/Payphone-Digital/storefront/internal/screen"
	"github.com/Payphone-Digital/storefront/internal/view"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CatalogService is what the screens need from the catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, sort model.SortOrder) ([]model.ProductSummary, error)
	GetProduct(ctx context.Context, id model.ProductID) (*model.Product, error)
}

// ProductHandler serves the List and Detail screens.
type ProductHandler struct {
	catalog  CatalogService
	renderer *view.Renderer
}

func NewProductHandler(catalog CatalogService, renderer *view.Renderer) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// NotFound renders the page for paths no screen matches.
func (h *ProductHandler) NotFound(c *gin.Context) {
	h.renderPage(c, http.StatusNotFound, view.PageNotFound, h.newPage(c, "NotFound"))
}

func (h *ProductHandler) newPage(c *gin.Context, titleID string) view.Page {
	return h.renderer.NewPage(ctxutil.GetLocale(c.Request.Context()), titleID)
}

// mountScreen runs fetch as the single request of a freshly mounted screen
// and waits for it. The returned state is pending when the client went away,
// in which case nothing should be written; a late result is discarded by the
// screen.
func mountScreen[T any](c *gin.Context, name string, fetch screen.FetchFunc[T]) (screen.State, T, error) {
	ctx := c.Request.Context()

	s := screen.New[T](name, logger.FromContext(ctx))
	s.Mount(ctx, fetch)
	defer s.Unmount()

	if state := s.Wait(ctx); state == screen.StatePending || ctx.Err() != nil {
		var zero T
		return screen.StatePending, zero, ctx.Err()
	}
	return s.Snapshot()
}

func (h *ProductHandler) renderPage(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.RenderPage(&buf, name, data); err != nil {
		h.renderFailed(c, name, err)
		return
	}
	c.Data(status, constants.ContentTypeHTML, buf.Bytes())
}

func (h *ProductHandler) renderFragment(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := h.renderer.RenderFragment(&buf, name, data); err != nil {
		h.renderFailed(c, name, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(status, constants.ContentTypeHTML, buf.Bytes())
}

func (h *ProductHandler) renderFailed(c *gin.Context, name string, err error) {
	logger.FromContext(c.Request.Context()).Error("Failed to render template",
		zap.String("template", name),
		zap.Error(err),
	)
	c.String(http.StatusInternalServerError, constants.MsgInternalError)
}
