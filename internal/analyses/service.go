package analyses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ats/internal/extract"
	"resume-ats/internal/scoring"
	"resume-ats/internal/shared/metrics"
	"resume-ats/internal/shared/storage/object"
	"resume-ats/internal/shared/telemetry"
	"resume-ats/internal/shared/util"
	"resume-ats/internal/suggestions"
)

// DefaultMaxUploadBytes caps uploaded résumé files.
const DefaultMaxUploadBytes int64 = 10 << 20

const anonymousNamespace = "anonymous"

// Service validates requests, runs the pipeline and records reports.
// Repo and Store are optional.
type Service struct {
	Pipeline       *Pipeline
	Repo           Repo
	Store          object.ObjectStore
	MaxUploadBytes int64

	now   func() time.Time
	newID func() string
}

// run carries the request details that end up on the stored report.
type run struct {
	id        string
	mode      scoring.Mode
	sessionID string
	fileName  string
	fileKey   string
}

// Analyze scores pasted résumé text against a job description.
func (s *Service) Analyze(ctx context.Context, req Request) (Response, error) {
	req.AnalysisType = normalizeMode(req.AnalysisType)
	if err := validateStruct(req); err != nil {
		return Response{}, err
	}
	mode, err := scoring.ParseMode(req.AnalysisType)
	if err != nil {
		return Response{}, invalid("analysis_type", err.Error())
	}
	return s.analyze(ctx, req.ResumeText, req.JobDescription, run{
		id:        s.id(),
		mode:      mode,
		sessionID: req.SessionID,
	})
}

// AnalyzeUpload extracts text from an uploaded résumé file, keeps the original
// in the object store when one is configured, and scores it.
func (s *Service) AnalyzeUpload(ctx context.Context, up Upload) (Response, error) {
	fields := uploadFields{
		JobDescription: up.JobDescription,
		AnalysisType:   normalizeMode(up.AnalysisType),
	}
	if err := validateStruct(fields); err != nil {
		return Response{}, err
	}
	mode, err := scoring.ParseMode(fields.AnalysisType)
	if err != nil {
		return Response{}, invalid("analysis_type", err.Error())
	}
	if up.Body == nil {
		return Response{}, invalid("resume", "is required")
	}
	fileName, err := util.SanitizeFileName(up.FileName)
	if err != nil {
		return Response{}, invalid("resume", "file name is invalid")
	}

	data, err := s.readUpload(up.Body)
	if err != nil {
		return Response{}, err
	}
	if len(data) == 0 {
		return Response{}, invalid("resume", "file is empty")
	}
	format, err := extract.DetectFormat(up.ContentType, fileName, data)
	if err != nil {
		return Response{}, err
	}

	r := run{id: s.id(), mode: mode, sessionID: up.SessionID, fileName: fileName}
	text, err := s.extractUpload(ctx, &r, data, up.ContentType)
	if err != nil {
		if errors.Is(err, extract.ErrEmpty) {
			return Response{}, invalid("resume", "no text could be extracted from the file")
		}
		return Response{}, err
	}
	metrics.IncUpload(string(format))
	logEvent(ctx, telemetry.Info, "upload.extracted", map[string]any{
		"analysis_id": r.id,
		"format":      format,
		"bytes":       len(data),
		"file_key":    r.fileKey,
		"text_chars":  len([]rune(text)),
	})

	if err := validateStruct(extractedResume{Text: text}); err != nil {
		return Response{}, err
	}
	return s.analyze(ctx, text, up.JobDescription, r)
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, id string) (Report, error) {
	if s.Repo == nil {
		return Report{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns stored reports newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	if strings.TrimSpace(filter.SessionID) == "" {
		return nil, invalid("session_id", "is required")
	}
	if s.Repo == nil {
		return []Report{}, nil
	}
	return s.Repo.List(ctx, filter)
}

// Status reports analyzer readiness.
func (s *Service) Status() ModelStatus {
	return s.Pipeline.Status()
}

func (s *Service) analyze(ctx context.Context, resumeText, jobText string, r run) (Response, error) {
	mode := r.mode.String()
	metrics.IncAnalysisStarted(mode)
	logEvent(ctx, telemetry.Info, "analysis.started", map[string]any{
		"analysis_id":   r.id,
		"analysis_type": mode,
		"resume_chars":  len([]rune(resumeText)),
		"jd_chars":      len([]rune(jobText)),
	})

	out, err := s.Pipeline.Run(ctx, resumeText, jobText, r.mode)
	if err != nil {
		metrics.IncAnalysisFailed(mode)
		logEvent(ctx, telemetry.Error, "analysis.failed", map[string]any{
			"analysis_id":   r.id,
			"analysis_type": mode,
			"error":         err.Error(),
		})
		return Response{}, err
	}

	metrics.IncAnalysisCompleted(mode, out.Score)
	metrics.ObserveAnalysisDuration(mode, out.Duration)
	if out.Semantic != nil && !out.Semantic.OK() {
		metrics.IncSemanticFailure(string(out.Semantic.Failure.Reason))
		logEvent(ctx, telemetry.Warn, "analysis.semantic_degraded", map[string]any{
			"analysis_id": r.id,
			"reason":      out.Semantic.Failure.Reason,
			"message":     out.Semantic.Failure.Message,
		})
	}

	resp := buildResponse(r, out, s.clock())
	logEvent(ctx, telemetry.Info, "analysis.completed", map[string]any{
		"analysis_id":   r.id,
		"analysis_type": mode,
		"score":         resp.Score,
		"suggestions":   len(resp.Suggestions),
		"duration_ms":   resp.Metadata.DurationMs,
	})

	s.persist(ctx, resumeText, jobText, r, resp)
	return resp, nil
}

// persist stores the report; failures are logged and never fail the request.
func (s *Service) persist(ctx context.Context, resumeText, jobText string, r run, resp Response) {
	if s.Repo == nil {
		return
	}
	report := Report{
		ID:                resp.ID,
		SessionID:         r.sessionID,
		AnalysisType:      r.mode.String(),
		Score:             resp.Score,
		JobDescription:    jobText,
		ResumeFingerprint: util.Fingerprint(resumeText),
		FileName:          r.fileName,
		FileKey:           r.fileKey,
		Result:            resp,
		CreatedAt:         s.clock().UTC(),
	}
	if err := s.Repo.Create(context.WithoutCancel(ctx), report); err != nil {
		logEvent(ctx, telemetry.Error, "analysis.persist_failed", map[string]any{
			"analysis_id": r.id,
			"error":       err.Error(),
		})
	}
}

func (s *Service) readUpload(body io.Reader) ([]byte, error) {
	limit := s.MaxUploadBytes
	if limit <= 0 {
		limit = DefaultMaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrTooLarge
		}
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, ErrTooLarge
	}
	return data, nil
}

// extractUpload stores the original file when a store is configured and
// extracts its text, recording the storage key on r.
func (s *Service) extractUpload(ctx context.Context, r *run, data []byte, contentType string) (string, error) {
	if s.Store == nil {
		text, _, err := extract.FromBytes(ctx, data, contentType, r.fileName)
		return text, err
	}
	namespace := r.sessionID
	if namespace == "" {
		namespace = anonymousNamespace
	}
	obj, err := s.Store.Save(ctx, namespace, r.fileName, bytes.NewReader(data))
	if err != nil {
		logEvent(ctx, telemetry.Warn, "upload.store_failed", map[string]any{
			"analysis_id": r.id,
			"error":       err.Error(),
		})
		text, _, err := extract.FromBytes(ctx, data, contentType, r.fileName)
		return text, err
	}
	r.fileKey = obj.Key
	return extract.ExtractText(ctx, s.Store, obj.Key, contentType, r.fileName)
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Service) id() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}

func buildResponse(r run, out Outcome, now time.Time) Response {
	meta := Metadata{
		AnalysisType:   r.mode.String(),
		ProcessingTime: now.UTC().Format(time.RFC3339),
		DurationMs:     float64(out.Duration.Microseconds()) / 1000.0,
		KeywordScore:   out.Keyword.Score,
		StructureScore: out.Structure.Score,
		FileName:       r.fileName,
	}
	if out.Semantic != nil {
		meta.SemanticScore = out.Semantic.Score
		meta.SemanticError = out.Semantic.Failure
	}
	items := out.Suggestions
	if items == nil {
		items = []suggestions.Suggestion{}
	}
	return Response{
		ID:              r.id,
		Score:           out.Score,
		Suggestions:     items,
		KeywordMatches:  nonNil(out.Keyword.MatchedKeywords),
		MissingKeywords: nonNil(out.Keyword.MissingKeywords),
		Metadata:        meta,
		Breakdown:       out.Breakdown,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
