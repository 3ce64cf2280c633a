package keywords

// Dictionary is the curated vocabulary searched for in documents. It is built
// once at startup and never mutated.
type Dictionary struct {
	technical  []string
	softSkills []string
}

// DefaultDictionary returns the built-in technical and soft-skill terms.
func DefaultDictionary() Dictionary {
	return Dictionary{
		technical: []string{
			// languages
			"python", "java", "javascript", "typescript", "c++", "c#", "php", "ruby", "go", "rust",
			"swift", "kotlin", "scala", "r", "matlab", "sql", "html", "css", "sass", "less",

			// frameworks and libraries
			"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "laravel",
			"rails", "asp.net", "jquery", "bootstrap", "tailwind", "material-ui", "redux", "vuex",

			// databases
			"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra", "oracle",
			"sqlite", "dynamodb", "firebase", "supabase",

			// cloud and devops
			"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "gitlab", "github", "terraform",
			"ansible", "chef", "puppet", "vagrant", "ci/cd", "devops",

			// tools
			"git", "svn", "jira", "confluence", "slack", "teams", "figma", "sketch", "photoshop",
			"illustrator", "postman", "swagger", "api", "rest", "graphql", "microservices",

			// methodologies
			"agile", "scrum", "kanban", "waterfall", "lean", "tdd", "bdd", "pair programming",

			// data and ai
			"machine learning", "deep learning", "ai", "data science", "analytics", "big data",
			"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras", "spark", "hadoop",
		},
		softSkills: []string{
			"leadership", "communication", "teamwork", "problem solving", "analytical",
			"creative", "innovative", "adaptable", "flexible", "organized", "detail-oriented",
			"time management", "project management", "collaboration", "mentoring", "training",
		},
	}
}

// Technical returns a copy of the technical terms.
func (d Dictionary) Technical() []string {
	return append([]string(nil), d.technical...)
}

// SoftSkills returns a copy of the soft-skill phrases.
func (d Dictionary) SoftSkills() []string {
	return append([]string(nil), d.softSkills...)
}

