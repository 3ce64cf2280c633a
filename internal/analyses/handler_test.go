package analyses

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/middleware"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

type errorEnvelope struct {
	Error struct {
		Code    string       `json:"code"`
		Message string       `json:"message"`
		Details []FieldError `json:"details"`
	} `json:"error"`
}

func TestHandlerAnalyze(t *testing.T) {
	r := newTestRouter(t, newTestService(t, NewMemoryRepo(), nil))

	resp := doJSON(r, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_text":     strongResume,
		"job_description": jobDescription,
		"analysis_type":   "full",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"id", "score", "suggestions", "keyword_matches", "missing_keywords", "metadata", "breakdown"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("expected %q in response", key)
		}
	}
	meta := body["metadata"].(map[string]any)
	for _, key := range []string{"analysis_type", "processing_time", "duration_ms", "keyword_score", "semantic_score", "structure_score"} {
		if _, ok := meta[key]; !ok {
			t.Fatalf("expected metadata.%s", key)
		}
	}
	if _, ok := meta["semantic_error"]; ok {
		t.Fatalf("semantic_error must be omitted on success")
	}

	got := doJSON(r, http.MethodGet, "/api/v1/analyses/"+body["id"].(string), nil)
	if got.Code != http.StatusOK {
		t.Fatalf("expected stored report, got %d", got.Code)
	}
}

func TestHandlerAnalyzeValidationError(t *testing.T) {
	r := newTestRouter(t, newTestService(t, nil, nil))

	resp := doJSON(r, http.MethodPost, "/api/v1/analyze", map[string]string{
		"resume_text":     "too short",
		"job_description": jobDescription,
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != ErrorCodeValidation {
		t.Fatalf("expected validation_error, got %q", env.Error.Code)
	}
	if len(env.Error.Details) != 1 || env.Error.Details[0].Field != "resume_text" {
		t.Fatalf("unexpected details %+v", env.Error.Details)
	}
}

func TestHandlerAnalyzeMalformedJSON(t *testing.T) {
	r := newTestRouter(t, newTestService(t, nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestHandlerGetUnknownAnalysis(t *testing.T) {
	r := newTestRouter(t, newTestService(t, NewMemoryRepo(), nil))

	resp := doJSON(r, http.MethodGet, "/api/v1/analyses/missing", nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestHandlerListAnalysesScopedBySession(t *testing.T) {
	svc := newTestService(t, NewMemoryRepo(), nil)
	r := newTestRouter(t, svc)

	for _, session := range []string{"s1", "s1", "s2"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(
			`{"resume_text":`+jsonString(strongResume)+`,"job_description":`+jsonString(jobDescription)+`,"analysis_type":"quick"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(SessionHeader, session)
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("analyze: %d %s", resp.Code, resp.Body.String())
		}
	}

	resp := doJSON(r, http.MethodGet, "/api/v1/analyses?session_id=s1&limit=10", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Items []map[string]any `json:"items"`
		Limit int              `json:"limit"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 2 || body.Limit != 10 {
		t.Fatalf("expected 2 items with limit 10, got %d / %d", len(body.Items), body.Limit)
	}
}

func TestHandlerListAnalysesRequiresSession(t *testing.T) {
	svc := newTestService(t, NewMemoryRepo(), nil)
	r := newTestRouter(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(
		`{"resume_text":`+jsonString(strongResume)+`,"job_description":`+jsonString(jobDescription)+`,"analysis_type":"quick"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, "alice")
	r.ServeHTTP(httptest.NewRecorder(), req)

	resp := doJSON(r, http.MethodGet, "/api/v1/analyses", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var env errorEnvelope
	if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Error.Code != ErrorCodeValidation || len(env.Error.Details) != 1 || env.Error.Details[0].Field != "session_id" {
		t.Fatalf("unexpected error body %+v", env.Error)
	}
	if strings.Contains(resp.Body.String(), "alice") {
		t.Fatalf("expected no report data in response, got %s", resp.Body.String())
	}
}

func TestHandlerModelStatus(t *testing.T) {
	r := newTestRouter(t, newTestService(t, nil, nil))

	resp := doJSON(r, http.MethodGet, "/api/v1/models/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status ModelStatus
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.SemanticAnalyzer || status.EmbeddingProvider != "hashing" {
		t.Fatalf("unexpected status %+v", status)
	}
}

func multipartUpload(t *testing.T, fileName, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="resume"; filename="`+fileName+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerUpload(t *testing.T) {
	r := newTestRouter(t, newTestService(t, nil, nil))

	req := multipartUpload(t, "resume.txt", "text/plain", []byte(strongResume), map[string]string{
		"job_description": jobDescription,
		"analysis_type":   "quick",
	})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body Response
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Metadata.FileName != "resume.txt" || body.Metadata.AnalysisType != "quick" {
		t.Fatalf("unexpected metadata %+v", body.Metadata)
	}
}

func TestHandlerUploadErrors(t *testing.T) {
	svc := newTestService(t, nil, nil)
	svc.MaxUploadBytes = 128
	r := newTestRouter(t, svc)

	cases := []struct {
		name     string
		req      *http.Request
		wantCode int
		wantErr  string
	}{
		{
			name:     "unsupported type",
			req:      multipartUpload(t, "resume.exe", "application/octet-stream", []byte("MZ\x90\x00binary"), map[string]string{"job_description": jobDescription}),
			wantCode: http.StatusUnsupportedMediaType,
			wantErr:  ErrorCodeUnsupportedMedia,
		},
		{
			name:     "too large",
			req:      multipartUpload(t, "resume.txt", "text/plain", bytes.Repeat([]byte("a"), 256), map[string]string{"job_description": jobDescription}),
			wantCode: http.StatusRequestEntityTooLarge,
			wantErr:  ErrorCodePayloadTooLarge,
		},
		{
			name: "missing file",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/upload", strings.NewReader("job_description=x"))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			}(),
			wantCode: http.StatusBadRequest,
			wantErr:  ErrorCodeValidation,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, tc.req)
			if resp.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, resp.Code, resp.Body.String())
			}
			var env errorEnvelope
			if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantErr {
				t.Fatalf("expected %s, got %s", tc.wantErr, env.Error.Code)
			}
		})
	}
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
