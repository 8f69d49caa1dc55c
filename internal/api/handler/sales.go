package handler

import (
	"net/http"

	"github.com/appdotbuilder/revenue-dashboard/internal/domain"
	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/catalog"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
)

// CreateSale registra uma venda. O total é calculado no servidor.
func CreateSale(service catalog.CatalogService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request domain.CreateSaleRequest
		if err := decodeBody(r, w, &request); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", err.Error())
			return
		}

		sale, err := service.CreateSale(r.Context(), &request)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		writeJSON(r.Context(), w, http.StatusCreated, sale)
	})
}
