package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateStoresResultAsJSON(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	report := Report{
		ID:                "report-1",
		AnalysisType:      "full",
		Score:             72,
		JobDescription:    "Go engineer",
		ResumeFingerprint: "abc123",
		Result:            Response{ID: "report-1", Score: 72},
		CreatedAt:         time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO analysis_reports").
		WithArgs(
			report.ID,
			nil, // session_id
			report.AnalysisType,
			report.Score,
			report.JobDescription,
			report.ResumeFingerprint,
			nil, // file_name
			nil, // file_key
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	payload, _ := json.Marshal(Response{ID: "report-1", Score: 64, KeywordMatches: []string{"go"}})
	rows := sqlmock.NewRows([]string{"id", "session_id", "analysis_type", "score", "job_description", "resume_fingerprint", "file_name", "file_key", "result", "created_at"}).
		AddRow("report-1", "sess-1", "quick", 64, "jd", "fp", nil, nil, payload, created)
	mock.ExpectQuery("FROM analysis_reports").WithArgs("report-1").WillReturnRows(rows)

	report, err := (&PGRepo{DB: db}).GetByID(context.Background(), "report-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if report.SessionID != "sess-1" || report.Score != 64 || report.FileName != "" {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(report.Result.KeywordMatches) != 1 || report.Result.KeywordMatches[0] != "go" {
		t.Fatalf("result not decoded: %+v", report.Result)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM analysis_reports").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := (&PGRepo{DB: db}).GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListClampsLimitAndFiltersSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cols := []string{"id", "session_id", "analysis_type", "score", "job_description", "resume_fingerprint", "file_name", "file_key", "result", "created_at"}
	mock.ExpectQuery("WHERE session_id = \\$1").
		WithArgs("sess-1", maxListLimit, 0).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("b", "sess-1", "full", 80, "jd", "fp", nil, nil, []byte(`{}`), time.Now()).
			AddRow("a", "sess-1", "full", 40, "jd", "fp", "cv.pdf", "k/cv.pdf", []byte(`{}`), time.Now().Add(-time.Hour)))

	reports, err := (&PGRepo{DB: db}).List(context.Background(), ListFilter{SessionID: "sess-1", Limit: 500, Offset: -3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 2 || reports[1].FileKey != "k/cv.pdf" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListWithoutSessionSkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	reports, err := (&PGRepo{DB: db}).List(context.Background(), ListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(reports) != 0 {
		t.Fatalf("expected no reports, got %+v", reports)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
