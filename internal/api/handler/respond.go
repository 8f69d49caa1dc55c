package handler

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/appdotbuilder/revenue-dashboard/internal/usecases/catalog"
	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// limite do corpo das requisições de escrita
const maxBodyBytes = 1 << 20

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ForContext(ctx).WithError(err).Error("handler: erro ao codificar resposta")
	}
}

func decodeBody(r *http.Request, w http.ResponseWriter, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dest)
}

// writeCatalogError traduz os erros do catálogo para a resposta padronizada
func writeCatalogError(w http.ResponseWriter, err error) {
	var catalogErr *catalog.CatalogError
	if errors.As(err, &catalogErr) {
		apiErrors.WriteError(w, catalogErr.Code, catalogErr.Err.Error(), catalogErr.Details)
		return
	}
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno no servidor", nil)
}
