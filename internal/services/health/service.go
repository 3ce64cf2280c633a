package health

import "time"

// ServiceName identifies this API in health payloads.
const ServiceName = "resume-ats-api"

// Status is the health payload.
type Status struct {
	OK        bool   `json:"ok"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Service encapsulates health-related checks.
type Service struct {
	now func() time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{now: time.Now}
}

// Status returns the health payload.
func (s *Service) Status() Status {
	now := time.Now
	if s != nil && s.now != nil {
		now = s.now
	}
	return Status{
		OK:        true,
		Status:    "healthy",
		Timestamp: now().UTC().Format(time.RFC3339),
		Service:   ServiceName,
	}
}
