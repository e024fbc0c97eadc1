package domain

type Severity string

const (
	SeverityNone      Severity = "NONE"
	SeverityModerate  Severity = "MODERATE"
	SeverityHigh      Severity = "HIGH"
	SeverityExcessive Severity = "EXCESSIVE"
)

type Verdict string

const (
	VerdictNoDuplicates       Verdict = "NO_DUPLICATES"
	VerdictSimilarItems       Verdict = "SIMILAR_ITEMS"
	VerdictCriticalDuplicates Verdict = "CRITICAL_DUPLICATES"
)

type Action string

const (
	ActionSkip      Action = "SKIP"
	ActionConsider  Action = "CONSIDER"
	ActionRecommend Action = "RECOMMEND"
)

type Reason string

const (
	ReasonExcessiveDuplication      Reason = "EXCESSIVE_DUPLICATION"
	ReasonHighDuplicationLowVariety Reason = "HIGH_DUPLICATION_LOW_VARIETY"
	ReasonModerateDuplication       Reason = "MODERATE_DUPLICATION"
	ReasonVarietyConcern            Reason = "VARIETY_CONCERN"
	ReasonNoCriticalDuplicates      Reason = "NO_CRITICAL_DUPLICATES"
)

type DuplicateMatch struct {
	Item            WardrobeItem `json:"item"`
	SimilarityScore int          `json:"similarity_score"`
	OverlapFactors  []string     `json:"overlap_factors"`
}

type DuplicateAnalysis struct {
	Found    bool             `json:"found"`
	Count    int              `json:"count"`
	Matches  []DuplicateMatch `json:"matches"`
	Severity Severity         `json:"severity"`
	Verdict  Verdict          `json:"verdict"`
}

// DimensionImpact describes how one attribute is spread across a category
// before and after the candidate is added.
type DimensionImpact struct {
	CurrentDistinct      int  `json:"current_distinct"`
	TargetCount          int  `json:"target_count"`
	AfterAddition        int  `json:"after_addition"`
	PercentageOfCategory int  `json:"percentage_of_category"`
	IsDominant           bool `json:"is_dominant"`
}

type VarietyImpact struct {
	Color         DimensionImpact `json:"color_distribution"`
	Silhouette    DimensionImpact `json:"silhouette_distribution"`
	VarietyScore  int             `json:"variety_score"`
	ImpactMessage string          `json:"impact_message"`
}

type Recommendation struct {
	Action     Action `json:"action"`
	Reason     Reason `json:"reason"`
	Message    string `json:"message"`
	Confidence int    `json:"confidence"`
}

type AnalysisResult struct {
	DuplicateAnalysis DuplicateAnalysis `json:"duplicate_analysis"`
	VarietyImpact     VarietyImpact     `json:"variety_impact"`
	Recommendation    Recommendation    `json:"recommendation"`
}

// AttributeValue is a validated attribute with a 0..100 confidence.
// An empty Value means the attribute could not be resolved.
type AttributeValue struct {
	Value      string `json:"value,omitempty"`
	Confidence int    `json:"confidence"`
}

type ExtractedAttributes struct {
	Color      AttributeValue `json:"color"`
	Silhouette AttributeValue `json:"silhouette"`
	Style      AttributeValue `json:"style"`
}

type AnalysisRequest struct {
	UserID      string
	Candidate   CandidateItem
	Description string
	WithAdvice  bool
}

type AnalysisReport struct {
	Candidate             CandidateItem        `json:"candidate"`
	Extracted             *ExtractedAttributes `json:"extracted,omitempty"`
	DuplicateCheckSkipped bool                 `json:"duplicate_check_skipped"`
	Result                *AnalysisResult      `json:"result,omitempty"`
	Advice                string               `json:"advice,omitempty"`
}
