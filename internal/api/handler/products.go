package handler

import (
	"net/http"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/catalog"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

// ListProducts retorna os produtos ordenados por nome
func ListProducts(service catalog.CatalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := service.ListProducts(r.Context())
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		log.ForContext(r.Context()).WithField("products", len(products)).Debug("products: lista retornada")
		writeJSON(r.Context(), w, http.StatusOK, products)
	})
}

// CreateProduct cadastra um produto novo
func CreateProduct(service catalog.CatalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.CreateProductRequest
		if err := decodeBody(r, w, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", err.Error())
			return
		}

		product, err := service.CreateProduct(r.Context(), &request)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, product)
	})
}
