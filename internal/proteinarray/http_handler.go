package proteinarray

import (
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/rpattn/portaldata/internal/api"
	"github.com/rpattn/portaldata/internal/format"
)

// UnresolvedGenesHeader lists gene tokens that matched nothing.
const UnresolvedGenesHeader = "unresolved-genes"

type Handler struct {
	service *Service
	logger  *zap.Logger
}

func NewHTTPHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Routes registers the protein array endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/studies/{studyId}/protein-arrays/info", h.handleInfo)
	mux.HandleFunc("GET /api/studies/{studyId}/protein-arrays/data", h.handleData)
}

func startDownload(w http.ResponseWriter, f format.Format, studyID, name string, unresolved []string) {
	w.Header().Set("Content-Type", f.ContentType())
	if f == format.FormatXLSX {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", studyID+"_"+name+".xlsx"))
	}
	if len(unresolved) > 0 {
		w.Header().Set(UnresolvedGenesHeader, strings.Join(unresolved, ","))
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleInfo(w http.ResponseWriter, r *http.Request) {
	f, err := format.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	req := InfoRequest{
		StudyID: r.PathValue("studyId"),
		Genes:   api.ListParam(r, "genes"),
		Type:    strings.TrimSpace(r.URL.Query().Get("type")),
	}

	arrays, unresolved, err := h.service.Info(r.Context(), req)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	startDownload(w, f, req.StudyID, "protein_array_info", unresolved)
	if f == format.FormatXLSX {
		_, err = format.WriteInfoXLSX(w, arrays, "protein_array_info")
	} else {
		_, err = format.WriteInfoTSV(w, arrays)
	}
	if err != nil {
		h.logger.Warn("failed to stream protein array info", zap.String("study_id", req.StudyID), zap.Error(err))
	}
}

func (h *Handler) handleData(w http.ResponseWriter, r *http.Request) {
	f, err := format.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	includeInfo, err := api.BoolParam(r, "arrayInfo", false)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}
	req := DataRequest{
		StudyID:          r.PathValue("studyId"),
		ArrayIDs:         api.ListParam(r, "arrays"),
		Genes:            api.ListParam(r, "genes"),
		Type:             strings.TrimSpace(r.URL.Query().Get("type")),
		CaseIDs:          api.ExactListParam(r, "cases"),
		IncludeArrayInfo: includeInfo,
	}

	table, bundle, err := h.service.Matrix(r.Context(), req)
	if err != nil {
		api.WriteError(w, h.logger, err)
		return
	}

	startDownload(w, f, req.StudyID, "protein_array_data", bundle.Unresolved)
	var written int64
	if f == format.FormatXLSX {
		written, err = format.WriteMatrixXLSX(w, table, "protein_array_data")
	} else {
		written, err = format.WriteMatrixTSV(w, table)
	}
	if err != nil {
		h.logger.Warn("failed to stream protein array matrix", zap.String("study_id", req.StudyID), zap.Error(err))
		return
	}
	h.logger.Debug("protein array matrix written",
		zap.String("study_id", req.StudyID),
		zap.Int("rows", len(table.Rows)),
		zap.Int("columns", len(table.Columns)),
		zap.Int64("bytes", written),
	)
}
