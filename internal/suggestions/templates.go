package suggestions

// Rule keys. Each rule contributes at most one suggestion per analysis.
const (
	RuleMissingKeywords          = "missing_keywords"
	RuleLowKeywordDensity        = "low_keyword_density"
	RuleMissingSections          = "missing_sections"
	RuleNoQuantifiedAchievements = "no_quantified_achievements"
	RuleNoActionVerbs            = "no_action_verbs"
	RulePoorFormatting           = "poor_formatting"
	RuleLowSemanticMatch         = "low_semantic_match"
	RuleOverhaul                 = "score_overhaul"
	RuleFineTune                 = "score_fine_tune"
)

type template struct {
	Type        Type
	Impact      Impact
	Title       string
	Description string
}

var templates = map[string]template{
	RuleMissingKeywords: {
		Type:        TypeCritical,
		Impact:      ImpactHigh,
		Title:       "Add Missing Keywords",
		Description: "Your resume is missing important keywords from the job description.",
	},
	RuleLowKeywordDensity: {
		Type:        TypeWarning,
		Impact:      ImpactMedium,
		Title:       "Increase Keyword Density",
		Description: "Consider using job-relevant keywords more frequently throughout your resume.",
	},
	RuleMissingSections: {
		Type:        TypeCritical,
		Impact:      ImpactHigh,
		Title:       "Add Missing Sections",
		Description: "Your resume is missing essential sections.",
	},
	RuleNoQuantifiedAchievements: {
		Type:        TypeWarning,
		Impact:      ImpactMedium,
		Title:       "Quantify Your Achievements",
		Description: "Add numbers and metrics to make your accomplishments more impactful.",
	},
	RuleNoActionVerbs: {
		Type:        TypeImprovement,
		Impact:      ImpactMedium,
		Title:       "Use Strong Action Verbs",
		Description: "Start bullet points with powerful action verbs to grab attention.",
	},
	RulePoorFormatting: {
		Type:        TypeWarning,
		Impact:      ImpactMedium,
		Title:       "Improve ATS Formatting",
		Description: "Ensure your resume uses ATS-friendly formatting.",
	},
	RuleLowSemanticMatch: {
		Type:        TypeImprovement,
		Impact:      ImpactMedium,
		Title:       "Improve Content Relevance",
		Description: "Align your experience descriptions more closely with the job requirements.",
	},
	RuleOverhaul: {
		Type:        TypeCritical,
		Impact:      ImpactHigh,
		Title:       "Comprehensive Resume Overhaul Needed",
		Description: "Your resume needs significant improvements to pass ATS screening.",
	},
	RuleFineTune: {
		Type:        TypeImprovement,
		Impact:      ImpactMedium,
		Title:       "Fine-tune Your Resume",
		Description: "Your resume is good but could benefit from targeted improvements.",
	},
}

const (
	exampleKeywordDensity = "Use relevant keywords naturally throughout your experience descriptions"
	exampleQuantify       = "Instead of 'Improved performance', write 'Improved application performance by 40%'"
	exampleActionVerbs    = "Use 'Developed', 'Implemented', 'Led' instead of 'Responsible for'"
	exampleSemantic       = "Rewrite experience descriptions to better match job requirements and responsibilities"
	exampleOverhaul       = "Focus on adding relevant keywords, improving formatting, and quantifying achievements"
	exampleFineTune       = "Focus on the highest-impact suggestions to reach the 80+ score range"
)
