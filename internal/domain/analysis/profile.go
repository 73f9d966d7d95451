package analysis

import "fmt"

// Profile selects which prompt/schema pair the service sends to the model.
type Profile string

const (
	// ProfileFixed: X profiles only, closed category set.
	ProfileFixed Profile = "fixed"
	// ProfileDynamic: any supported platform, profile or post, open
	// categories, plus platform and contentType fields.
	ProfileDynamic Profile = "dynamic"
)

const DefaultProfile = ProfileFixed

func (p Profile) Valid() bool {
	return p == ProfileFixed || p == ProfileDynamic
}

// ParseProfile accepts an empty string as "use the default".
func ParseProfile(s string) (Profile, error) {
	if s == "" {
		return DefaultProfile, nil
	}
	p := Profile(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown analysis profile %q (allowed: fixed, dynamic)", s)
	}
	return p, nil
}
