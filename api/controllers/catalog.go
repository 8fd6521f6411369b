package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/api/middleware"
	"github.com/kiranalabs/bazaari-backend/api/responses"
	"github.com/kiranalabs/bazaari-backend/api/validators"
	"github.com/kiranalabs/bazaari-backend/internal/catalog"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/logger"
)

// requestRole resolves the caller's pricing tier. Anonymous and unknown
// callers browse at customer prices.
func requestRole(r *http.Request) enums.Role {
	return enums.Role(middleware.RoleFromContext(r.Context())).Normalize()
}

// CatalogListProducts serves the product listing with role-aware prices.
func CatalogListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		brandID, err := validators.ParseQueryUUID(r, "brand_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), requestRole(r), catalog.ListProductsInput{
			Limit:      params.Limit,
			Cursor:     params.Cursor,
			CategoryID: categoryID,
			BrandID:    brandID,
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// CatalogGetProduct serves one product by slug.
func CatalogGetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		detail, err := svc.GetProductDetail(r.Context(), requestRole(r), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// CatalogListBrands serves the brand directory.
func CatalogListBrands(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brands, err := svc.ListBrands(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brands)
	}
}

// CatalogListCategories serves the category tree.
func CatalogListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// PricingBreakdown exposes the per-unit price breakdown for one variant
// at the caller's tier.
func PricingBreakdown(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		variantID, err := validators.ParseQueryUUID(r, "variant_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if variantID == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant_id is required"))
			return
		}

		breakdown, err := svc.GetVariantBreakdown(r.Context(), requestRole(r), *variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, breakdown)
	}
}

// AdminCreateProduct creates a product with its variants.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload catalog.CreateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct patches a product and optionally replaces its variants.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload catalog.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
