package analyses

import (
	"context"
	"testing"

	"resume-ats/internal/embedding"
	"resume-ats/internal/keywords"
	"resume-ats/internal/scoring"
	"resume-ats/internal/semantic"
	"resume-ats/internal/structure"
	"resume-ats/internal/suggestions"
	"resume-ats/internal/textproc"
)

const strongResume = `Jane Doe
CONTACT
jane.doe@example.com | 555-123-4567

PROFESSIONAL SUMMARY
Backend engineer building payment APIs in Go and Python since 2016.

WORK EXPERIENCE
Senior Engineer, Acme Payments, 2019 - 2024
• Developed microservices in Go with PostgreSQL and Redis
• Reduced latency by 40% across 3 regions using Kubernetes and Docker
• Led a team of 5 engineers and improved deployment frequency 3x with CI/CD

EDUCATION
Bachelor of Computer Science, State University, 2016

SKILLS
Go, Python, PostgreSQL, Redis, Docker, Kubernetes, AWS, REST APIs, leadership, communication`

const jobDescription = `We are hiring a backend engineer with 5 years experience.
You will build microservices in Go, operate PostgreSQL and Redis, and deploy with Docker and Kubernetes on AWS.
Strong communication and leadership skills are required. Bachelor of Computer Science preferred.`

func newTestPipeline(t *testing.T, withSemantic bool) *Pipeline {
	t.Helper()
	var sem *semantic.Analyzer
	if withSemantic {
		sem = semantic.New(embedding.NewHashing(256))
		if err := sem.Initialize(context.Background()); err != nil {
			t.Fatalf("initialize semantic: %v", err)
		}
	}
	engine, err := scoring.NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	p, err := NewPipeline(Components{
		Processor:         textproc.NewProcessor(),
		Keywords:          keywords.NewAnalyzer(keywords.DefaultDictionary(), nil),
		Semantic:          sem,
		Structure:         structure.NewAnalyzer(),
		Scoring:           engine,
		Suggestions:       suggestions.New(),
		EmbeddingProvider: "hashing",
	})
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}
	return p
}
