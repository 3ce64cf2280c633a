package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const reportColumns = `id, session_id, analysis_type, score, job_description, resume_fingerprint, file_name, file_key, result, created_at`

// Create inserts a new report.
func (r *PGRepo) Create(ctx context.Context, report Report) error {
	const query = `
INSERT INTO analysis_reports (
	id, session_id, analysis_type, score, job_description, resume_fingerprint, file_name, file_key, result, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	payload, err := json.Marshal(report.Result)
	if err != nil {
		return fmt.Errorf("marshal report result: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		report.ID,
		nullString(report.SessionID),
		report.AnalysisType,
		report.Score,
		report.JobDescription,
		report.ResumeFingerprint,
		nullString(report.FileName),
		nullString(report.FileKey),
		payload,
		report.CreatedAt,
	)
	return err
}

// GetByID returns a report by ID.
func (r *PGRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	query := `SELECT ` + reportColumns + `
FROM analysis_reports
WHERE id = $1
LIMIT 1`
	report, err := scanReport(r.DB.QueryRowContext(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Report{}, ErrNotFound
		}
		return Report{}, err
	}
	return report, nil
}

// List lists a session's reports ordered newest-first. Without a session it
// returns nothing.
func (r *PGRepo) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	filter = filter.normalized()
	if filter.SessionID == "" {
		return []Report{}, nil
	}

	query := `SELECT ` + reportColumns + `
FROM analysis_reports
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, filter.SessionID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var (
		report    Report
		sessionID sql.NullString
		fileName  sql.NullString
		fileKey   sql.NullString
		result    []byte
	)
	if err := row.Scan(
		&report.ID,
		&sessionID,
		&report.AnalysisType,
		&report.Score,
		&report.JobDescription,
		&report.ResumeFingerprint,
		&fileName,
		&fileKey,
		&result,
		&report.CreatedAt,
	); err != nil {
		return Report{}, err
	}
	report.SessionID = sessionID.String
	report.FileName = fileName.String
	report.FileKey = fileKey.String
	if len(result) > 0 {
		if err := json.Unmarshal(result, &report.Result); err != nil {
			return Report{}, fmt.Errorf("decode report %s: %w", report.ID, err)
		}
	}
	return report, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
