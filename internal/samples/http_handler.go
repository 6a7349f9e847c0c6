package samples

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/api"
	"github.com/rpattn/portaldata/internal/domain"
	"github.com/rpattn/portaldata/internal/exposure"
)

type Handler struct {
	service *Service
	fields  exposure.Fields
	limits  api.Limits
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, fields exposure.Fields, limits api.Limits, logger *zap.Logger) *Handler {
	return &Handler{service: service, fields: fields, limits: limits, logger: logger}
}

// Routes registers the sample endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/studies/{studyId}/samples", h.handleList)
	mux.HandleFunc("GET /api/studies/{studyId}/samples/{sampleId}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := api.PageRequest(r, h.limits)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	studyID := r.PathValue("studyId")

	if page.Projection == domain.ProjectionMeta {
		meta, err := h.service.GetMetaSamplesInStudy(r.Context(), studyID)
		if err != nil {
			api.WriteError(w, h.logger, err)
			return
		}
		api.WriteMeta(w, meta)
		return
	}

	samples, err := h.service.GetAllSamplesInStudy(r.Context(), studyID, page)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntities(w, h.logger, h.fields, exposure.Sample, samples)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sample, err := h.service.GetSampleInStudy(r.Context(), r.PathValue("studyId"), r.PathValue("sampleId"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntity(w, h.logger, h.fields, exposure.Sample, sample)
}
