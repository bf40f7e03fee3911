// Package request normalizes the query parameters accepted by the keyboard
// install page.
//
// Validation is lenient on purpose: an unknown tier silently becomes stable
// and a malformed language tag is dropped. Neither is reported as an error.
package request

import (
	"net/http"
	"strings"
)

// Tier is the release channel a keyboard or product download is drawn from.
type Tier string

const (
	TierStable Tier = "stable"
	TierAlpha  Tier = "alpha"
	TierBeta   Tier = "beta"
)

// Query parameter and path value names.
const (
	ParamID   = "id"
	ParamTier = "tier"
	ParamTag  = "tag"
)

// Params holds the validated request inputs. Tag is empty when absent.
type Params struct {
	ID   string
	Tier Tier
	Tag  string
}

// HasTag reports whether a language tag hint was supplied.
func (p Params) HasTag() bool {
	return p.Tag != ""
}

// ValidateTier returns raw when it names a known tier and TierStable otherwise.
func ValidateTier(raw string) Tier {
	switch tier := Tier(raw); tier {
	case TierAlpha, TierBeta, TierStable:
		return tier
	default:
		return TierStable
	}
}

// ValidateTag returns raw unchanged when it is a well-formed BCP 47 language
// tag. There is no partial acceptance or canonicalization.
func ValidateTag(raw string) (string, bool) {
	if !bcp47Pattern.MatchString(raw) {
		return "", false
	}
	return raw, true
}

// Parse builds Params from raw values.
func Parse(id, tier, tag string) Params {
	validTag, _ := ValidateTag(tag)
	return Params{
		ID:   id,
		Tier: ValidateTier(tier),
		Tag:  validTag,
	}
}

// ParseParams reads id, tier and tag from the request path, query string or
// form body. A non-empty {id} path value wins over the id parameter.
func ParseParams(r *http.Request) Params {
	if r == nil {
		return Parse("", "", "")
	}
	id := r.PathValue(ParamID)
	if strings.TrimSpace(id) == "" {
		id = r.FormValue(ParamID)
	}
	return Parse(id, r.FormValue(ParamTier), r.FormValue(ParamTag))
}
