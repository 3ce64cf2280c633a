package analyses

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/extract"
	"resume-ats/internal/shared/server/middleware"
	"resume-ats/internal/shared/server/respond"
)

// SessionHeader scopes stored reports to a browser session.
const SessionHeader = "X-Session-Id"

// multipart overhead allowed on top of the file limit
const formOverheadBytes = 64 << 10

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze", h.analyze)
	rg.POST("/analyze/upload", h.analyzeUpload)
	rg.GET("/analyses", h.listAnalyses)
	rg.GET("/analyses/:id", h.getAnalysis)
	rg.GET("/models/status", h.modelStatus)
}

func (h *Handler) analyze(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "request body must be valid JSON", nil)
		return
	}
	req.SessionID = strings.TrimSpace(c.GetHeader(SessionHeader))

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	resp, err := h.Svc.Analyze(ctx, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.AnalysisIDKey, resp.ID)
	c.Set(middleware.AnalysisTypeKey, resp.Metadata.AnalysisType)
	respond.OK(c, resp)
}

func (h *Handler) analyzeUpload(c *gin.Context) {
	limit := h.Svc.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverheadBytes)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			h.writeError(c, ErrTooLarge)
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "resume file is required", []FieldError{{Field: "resume", Issue: "is required"}})
		default:
			respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "invalid multipart form", nil)
		}
		return
	}
	if fileHeader.Size > limit {
		h.writeError(c, ErrTooLarge)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "unable to read resume file", nil)
		return
	}
	defer file.Close()

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	resp, err := h.Svc.AnalyzeUpload(ctx, Upload{
		FileName:       fileHeader.Filename,
		ContentType:    contentType(fileHeader),
		Body:           file,
		JobDescription: c.PostForm("job_description"),
		AnalysisType:   c.PostForm("analysis_type"),
		SessionID:      strings.TrimSpace(c.GetHeader(SessionHeader)),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.AnalysisIDKey, resp.ID)
	c.Set(middleware.AnalysisTypeKey, resp.Metadata.AnalysisType)
	respond.OK(c, resp)
}

func (h *Handler) getAnalysis(c *gin.Context) {
	analysisID := c.Param("id")
	if analysisID == "" {
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "analysis id is required", nil)
		return
	}

	report, err := h.Svc.Get(c.Request.Context(), analysisID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Set(middleware.AnalysisIDKey, report.ID)
	respond.OK(c, report)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	filter := ListFilter{
		SessionID: strings.TrimSpace(c.Query("session_id")),
		Limit:     defaultListLimit,
	}
	if filter.SessionID == "" {
		filter.SessionID = strings.TrimSpace(c.GetHeader(SessionHeader))
	}
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Offset = parsed
		}
	}
	filter = filter.normalized()

	reports, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	items := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		items = append(items, gin.H{
			"id":            r.ID,
			"score":         r.Score,
			"analysis_type": r.AnalysisType,
			"file_name":     r.FileName,
			"created_at":    r.CreatedAt,
		})
	}
	respond.OK(c, gin.H{
		"items":  items,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

func (h *Handler) modelStatus(c *gin.Context) {
	respond.OK(c, h.Svc.Status())
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, ErrorCodeValidation, "request validation failed", verr.Fields)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, ErrorCodeNotFound, "analysis not found", nil)
	case errors.Is(err, ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "resume file exceeds the upload limit", nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusUnsupportedMediaType, ErrorCodeUnsupportedMedia, "resume must be a PDF, DOCX or TXT file", nil)
	case errors.Is(err, ErrAnalysisFailed):
		respond.Error(c, http.StatusInternalServerError, ErrorCodeAnalysisFailed, err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "unexpected server error", nil)
	}
}

func contentType(fh *multipart.FileHeader) string {
	if fh == nil || fh.Header == nil {
		return ""
	}
	return fh.Header.Get("Content-Type")
}
