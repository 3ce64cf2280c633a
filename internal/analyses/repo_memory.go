package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores reports in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]Report
	bySession map[string][]string
	order     []string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]Report),
		bySession: make(map[string][]string),
	}
}

// Create stores the report.
func (r *MemoryRepo) Create(ctx context.Context, report Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[report.ID]; !exists {
		r.order = append(r.order, report.ID)
		if report.SessionID != "" {
			r.bySession[report.SessionID] = append(r.bySession[report.SessionID], report.ID)
		}
	}
	r.byID[report.ID] = report
	return nil
}

// GetByID returns a report by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, reportID string) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byID[reportID]
	if !ok {
		return Report{}, ErrNotFound
	}
	return report, nil
}

// List returns a session's reports newest first. Without a session it
// returns nothing.
func (r *MemoryRepo) List(ctx context.Context, filter ListFilter) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filter = filter.normalized()
	if filter.SessionID == "" {
		return []Report{}, nil
	}

	r.mu.RLock()
	ids := r.bySession[filter.SessionID]
	reports := make([]Report, 0, len(ids))
	for _, id := range ids {
		reports = append(reports, r.byID[id])
	}
	r.mu.RUnlock()

	if filter.Offset >= len(reports) {
		return []Report{}, nil
	}
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})

	end := len(reports)
	if filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return reports[filter.Offset:end], nil
}
