package segments

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

// Routes registers the segment endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/studies/{studyId}/samples/{sampleId}/copy-number-segments", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := api.PageRequest(r, h.limits)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	studyID, sampleID := r.PathValue("studyId"), r.PathValue("sampleId")

	if page.Projection == domain.ProjectionMeta {
		meta, err := h.service.GetMetaCopyNumberSegmentsInSampleInStudy(r.Context(), studyID, sampleID)
		if err != nil {
			api.WriteError(w, h.logger, err)
			return
		}
		api.WriteMeta(w, meta)
		return
	}

	segments, err := h.service.GetCopyNumberSegmentsInSampleInStudy(r.Context(), studyID, sampleID, page)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntities(w, h.logger, h.fields, exposure.CopyNumberSegment, segments)
}
