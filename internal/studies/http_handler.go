package studies

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

// Routes registers the study endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/studies", h.handleList)
	mux.HandleFunc("GET /api/studies/{studyId}", h.handleGet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := api.PageRequest(r, h.limits)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	filter := domain.StudyFilter{Keyword: r.URL.Query().Get("keyword")}

	if page.Projection == domain.ProjectionMeta {
		meta, err := h.service.GetMetaStudies(r.Context(), filter)
		if err != nil {
			api.WriteError(w, h.logger, err)
			return
		}
		api.WriteMeta(w, meta)
		return
	}

	studies, err := h.service.GetAllStudies(r.Context(), filter, page)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntities(w, h.logger, h.fields, exposure.Study, studies)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	study, err := h.service.GetStudy(r.Context(), r.PathValue("studyId"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntity(w, h.logger, h.fields, exposure.Study, study)
}
