package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/appdotbuilder/revenue-dashboard/pkg/apiErrors"
	"github.com/appdotbuilder/revenue-dashboard/pkg/log"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeRevenueWarmup = "revenue-warmup"
)

// CronJob é um job agendado que também pode ser disparado manualmente
type CronJob interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// CronJobServices contém os jobs que podem ser executados manualmente
type CronJobServices struct {
	RevenueWarmup CronJob
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeRevenueWarmup:
			if services.RevenueWarmup == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de pré-aquecimento de receita não disponível", nil)
				return
			}
			if !services.RevenueWarmup.TriggerManualSync() {
				apiErrors.WriteError(w, apiErrors.ErrServiceBusy, "Cron job já em andamento", nil)
				return
			}
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: revenue-warmup", nil)
			return
		}

		logger.WithField("type", cronType).Info("cron: job iniciado manualmente")

		writeJSON(r.Context(), w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{}
		if services.RevenueWarmup != nil {
			status[CronJobTypeRevenueWarmup] = services.RevenueWarmup.GetStatus()
		}

		writeJSON(r.Context(), w, http.StatusOK, status)
	})
}
