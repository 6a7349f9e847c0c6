package genes

import (
	"encoding/json"
	"fmt"
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

// Routes registers the gene endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/genes", h.handleList)
	mux.HandleFunc("GET /api/genes/{geneId}", h.handleGet)
	mux.HandleFunc("GET /api/genes/{geneId}/aliases", h.handleAliases)
	mux.HandleFunc("POST /api/genes/fetch", h.handleFetch)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := api.PageRequest(r, h.limits)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	filter := domain.GeneFilter{Alias: r.URL.Query().Get("alias")}

	if page.Projection == domain.ProjectionMeta {
		meta, err := h.service.GetMetaGenes(r.Context(), filter)
		if err != nil {
			api.WriteError(w, h.logger, err)
			return
		}
		api.WriteMeta(w, meta)
		return
	}

	genes, err := h.service.GetAllGenes(r.Context(), filter, page)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntities(w, h.logger, h.fields, exposure.Gene, genes)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	gene, err := h.service.GetGene(r.Context(), r.PathValue("geneId"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntity(w, h.logger, h.fields, exposure.Gene, gene)
}

func (h *Handler) handleAliases(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.service.GetAliasesOfGene(r.Context(), r.PathValue("geneId"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, aliases)
}

// handleFetch takes a JSON array of identifiers in the body and the id
// space in the geneIdType query parameter.
func (h *Handler) handleFetch(w http.ResponseWriter, r *http.Request) {
	var geneIDs []string
	if err := json.NewDecoder(r.Body).Decode(&geneIDs); err != nil {
		api.WriteError(w, h.logger, fmt.Errorf("%w: invalid payload: %v", domain.ErrInvalidArgument, err))
		return
	}
	idType, err := domain.ParseGeneIDType(r.URL.Query().Get("geneIdType"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	projection, err := domain.ParseProjection(r.URL.Query().Get("projection"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	if projection == domain.ProjectionMeta {
		meta, err := h.service.FetchMetaGenes(r.Context(), geneIDs, idType)
		if err != nil {
			api.WriteError(w, h.logger, err)
			return
		}
		api.WriteMeta(w, meta)
		return
	}

	genes, err := h.service.FetchGenes(r.Context(), geneIDs, idType, projection)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	api.WriteEntities(w, h.logger, h.fields, exposure.Gene, genes)
}
