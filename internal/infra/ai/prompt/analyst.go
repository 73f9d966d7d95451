package prompt

import (
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

// Spec is everything the provider needs for one profile.
type Spec struct {
	Profile    analysis.Profile
	Prompt     string
	SchemaName string
	Schema     jsonschema.Definition
}

// ForProfile returns the prompt + schema pair for p. Unknown profiles fall
// back to the fixed one.
func ForProfile(p analysis.Profile) Spec {
	if p == analysis.ProfileDynamic {
		return Spec{
			Profile:    analysis.ProfileDynamic,
			Prompt:     GetDynamicPrompt(),
			SchemaName: "social_red_flag_analysis",
			Schema:     DynamicSchema(),
		}
	}
	return Spec{
		Profile:    analysis.ProfileFixed,
		Prompt:     GetFixedPrompt(),
		SchemaName: "x_profile_red_flag_analysis",
		Schema:     FixedSchema(),
	}
}

const scoreBands = `Calculate overallScore (0-100):
- 0-20: Clean, minimal concerns
- 21-40: Some minor red flags
- 41-60: Moderate concerns
- 61-80: Significant red flags
- 81-100: Major concerns, multiple severe red flags`

const severityGuide = `- severity: "low" (minor indicators), "medium" (clear patterns), or "high" (extreme/multiple indicators)
- evidence: specific text or visual elements from the screenshot
- analysis: brief explanation of why it's a red flag`

var fixedCategoryHints = map[analysis.Category]string{
	analysis.CategoryCEO:         "Excessive title dropping, serial entrepreneur claims, \"visionary\" language",
	analysis.CategoryTechBro:     "Hustle culture, grindset mentions, \"rise and grind\", overnight success claims",
	analysis.CategoryAIBro:       "Excessive AI hype, \"AI will change everything\", AI enthusiast without substance",
	analysis.CategoryAIArtist:    "AI-generated art advocacy, anti-traditional art stance, prompt engineering flex",
	analysis.CategoryNFT:         "NFT promotions, floor price mentions, JPEG references, ape/punk references",
	analysis.CategoryCrypto:      "Crypto shilling, \"WAGMI\", \"to the moon\", coin promotions, unrealistic gains",
	analysis.CategoryScammer:     "Unrealistic promises, urgency tactics, guaranteed returns, too good to be true offers",
	analysis.CategoryIndieHacker: "Excessive \"building in public\", revenue screenshot bragging, SaaS obsession",
	analysis.CategoryTechTuber:   "Clickbait language, thumbnail-style profile pic, dramatic claims, \"you won't believe\"",
}

// GetFixedPrompt: X profile screenshots, closed category list.
func GetFixedPrompt() string {
	var cats strings.Builder
	for i, c := range analysis.FixedCategories {
		fmt.Fprintf(&cats, "%d. **%s**: %s\n", i+1, c, fixedCategoryHints[c])
	}

	return `You are analyzing a screenshot to determine if it's an X profile and identify potential red flags.

**Phase 1: Validation**
First, verify this is a valid X profile screenshot. Check for:
- Profile photo (circular avatar)
- Username with @ handle
- Bio/description section
- X UI elements (follow button, profile layout, etc.)

If this is NOT an X profile screenshot, return:
{
  "isValid": false,
  "validationMessage": "Explain what the image shows instead",
  "redFlags": [],
  "overallScore": 0,
  "summary": "Not a valid X profile screenshot"
}

**Phase 2: Red Flag Analysis** (only if valid)
If it IS an X profile, analyze the bio, display name, and visible content for these red flag categories:

` + cats.String() + `
For each red flag found, provide:
- category: exact match from above
` + severityGuide + `

` + scoreBands + `

Return ONLY valid JSON in this exact format:
{
  "isValid": true,
  "validationMessage": "Valid X profile",
  "redFlags": [
    {
      "category": "CEO",
      "severity": "medium",
      "evidence": "Bio says 'Serial Entrepreneur | Founder of 5 companies'",
      "analysis": "Excessive title dropping and founder claims without context"
    }
  ],
  "overallScore": 45,
  "summary": "Brief 1-2 sentence summary of the analysis"
}

Be honest and direct. Not all profiles will have red flags. If the profile seems genuine, say so with an overallScore of 0-20 and empty redFlags array.`
}

// GetDynamicPrompt: any supported platform, profile or single post, with
// open categories.
func GetDynamicPrompt() string {
	platforms := make([]string, 0, len(analysis.Platforms))
	for _, p := range analysis.Platforms {
		platforms = append(platforms, string(p))
	}

	return `You are analyzing a screenshot of a social media profile or post and identifying potential red flags in how the author presents themselves.

**Phase 1: Validation**
First, decide whether this is a genuine screenshot of a social media profile or post. Look for:
- An avatar, display name and handle
- A bio/description, or a post body with engagement counts
- Platform UI elements (follow button, like/repost/comment bar, profile header)

Identify the platform (one of: ` + strings.Join(platforms, ", ") + `) and whether the screenshot shows a "profile" or a single "post".

If this is NOT a social media screenshot, return:
{
  "isValid": false,
  "validationMessage": "Explain what the image shows instead",
  "platform": "Unknown",
  "contentType": "profile",
  "redFlags": [],
  "overallScore": 0,
  "summary": ""
}

**Phase 2: Red Flag Analysis** (only if valid)
Read the visible name, bio and content text. Look for manipulative or off-putting behaviour such as status posturing, hype without substance, financial shilling, engagement bait, scam patterns or unrealistic claims. Name each category yourself with a short descriptive label (for example "Crypto Shilling" or "Engagement Bait"); do not force findings into a fixed list.

For each red flag found, provide:
- category: short descriptive label
` + severityGuide + `

` + scoreBands + `

Return ONLY valid JSON in this exact format:
{
  "isValid": true,
  "validationMessage": "Valid Instagram post",
  "platform": "Instagram",
  "contentType": "post",
  "redFlags": [
    {
      "category": "Guaranteed Returns",
      "severity": "high",
      "evidence": "Caption says 'DM me to 10x your money in a week'",
      "analysis": "Promises of guaranteed returns are a classic scam pattern"
    }
  ],
  "overallScore": 70,
  "summary": "Brief 1-2 sentence summary of the analysis"
}

Be honest and direct. Not every screenshot has red flags. If the content seems genuine, say so with an overallScore of 0-20 and an empty redFlags array.`
}
