package dto

import "github.com/Payphone-Digital/storefront/internal/model"

// ListProductsQuery binds the List Screen query string.
type ListProductsQuery struct {
	Sort string `form:"sort"`
}

// SortOrder resolves the raw value; unknown values fall back to ascending.
func (q ListProductsQuery) SortOrder() model.SortOrder {
	return model.ParseSortOrder(q.Sort)
}

// ProductURI binds the Detail Screen path parameter.
type ProductURI struct {
	ID string `uri:"id" binding:"required"`
}

func (u ProductURI) ProductID() model.ProductID {
	return model.ProductID(u.ID)
}
