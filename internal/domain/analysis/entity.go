package analysis

// Severity tier attached to a red flag
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Severities in ascending order.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh}

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// Category enum for the fixed profile. The dynamic profile accepts any
// descriptive string here.
type Category string

const (
	CategoryCEO         Category = "CEO"
	CategoryTechBro     Category = "TechBro"
	CategoryAIBro       Category = "AI Bro"
	CategoryAIArtist    Category = "AI Artist"
	CategoryNFT         Category = "NFT"
	CategoryCrypto      Category = "Crypto"
	CategoryScammer     Category = "Scammer"
	CategoryIndieHacker Category = "Indie Hacker"
	CategoryTechTuber   Category = "Tech Tuber"
)

// FixedCategories lists the closed category set in prompt order.
var FixedCategories = []Category{
	CategoryCEO,
	CategoryTechBro,
	CategoryAIBro,
	CategoryAIArtist,
	CategoryNFT,
	CategoryCrypto,
	CategoryScammer,
	CategoryIndieHacker,
	CategoryTechTuber,
}

// Platform enum (dynamic profile only)
type Platform string

const (
	PlatformX         Platform = "X"
	PlatformInstagram Platform = "Instagram"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
	PlatformOther     Platform = "Other"
	PlatformUnknown   Platform = "Unknown"
)

var Platforms = []Platform{
	PlatformX,
	PlatformInstagram,
	PlatformLinkedIn,
	PlatformFacebook,
	PlatformTikTok,
	PlatformOther,
	PlatformUnknown,
}

// ContentType enum (dynamic profile only)
type ContentType string

const (
	ContentTypeProfile ContentType = "profile"
	ContentTypePost    ContentType = "post"
)

var ContentTypes = []ContentType{ContentTypeProfile, ContentTypePost}

// RedFlag is one detected pattern with its evidence.
type RedFlag struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Evidence string   `json:"evidence"`
	Analysis string   `json:"analysis"`
}

// Result is the model's assessment. The service forwards the model JSON
// verbatim; this struct is only the decoded view of it, so decoding never
// validates values.
type Result struct {
	IsValid           bool        `json:"isValid"`
	ValidationMessage string      `json:"validationMessage"`
	RedFlags          []RedFlag   `json:"redFlags"`
	OverallScore      float64     `json:"overallScore"`
	Summary           string      `json:"summary"`
	Platform          Platform    `json:"platform,omitempty"`
	ContentType       ContentType `json:"contentType,omitempty"`
}

// Band returns the score band of the overall score.
func (r *Result) Band() Band {
	return ScoreBand(r.OverallScore)
}
