package matching

import (
	"bytes"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Score weights. A helper's suitability for a help request is the sum of
// three components: how much of the request's declared stack they cover,
// their reputation, and their self-reported proficiency on the skills that
// matched.
const (
	SkillMatchWeight  = 40.0
	ReputationWeight  = 30.0
	ProficiencyWeight = 30.0

	// ReputationCapPoints is the point total at which the reputation
	// component saturates.
	ReputationCapPoints = 1000.0

	// DefaultProficiencyValue stands in for the average when a helper has
	// no recorded proficiency levels at all. It equals the intermediate
	// tier: someone who never filled the field is treated as mid-level,
	// not as a beginner. Distinct from an unrecognized level, which
	// contributes 0 to the average.
	DefaultProficiencyValue = 5.0

	proficiencyScale = 10.0
)

// proficiencyValues maps self-reported tiers to their score contribution.
// Lookup is case-insensitive; anything else contributes zero.
var proficiencyValues = map[string]float64{
	"expert":       10,
	"advanced":     7,
	"intermediate": 5,
	"beginner":     3,
}

// Association is one (helper, skill) row that matched a request tag.
// Proficiency is empty when the helper never recorded a level for the skill.
type Association struct {
	UserID      uuid.UUID
	SkillName   string
	Proficiency string
}

// Profile carries the helper fields surfaced in a match result.
type Profile struct {
	UserID   uuid.UUID
	Name     string
	Avatar   string
	Headline string
	Location string
	Points   int
}

type MatchResult struct {
	UserID   uuid.UUID
	Name     string
	Avatar   string
	Headline string
	Location string
	Points   int

	// MatchedSkills and ProficiencyLevels are insertion-ordered.
	// ProficiencyLevels omits entries for associations without a recorded
	// level, so the two slices are not index-aligned in general.
	MatchedSkills     []string
	ProficiencyLevels []string

	MatchScore int
}

// Rank groups the matched associations per helper, scores each against the
// request's declared stack, and returns the helpers ordered by score
// descending (ties broken by user id so output is deterministic).
//
// tagCount must be the number of tags on the help request BEFORE catalog
// resolution. The skill-overlap component deliberately divides by that
// original count, so unresolvable tags depress every candidate's score
// rather than disappearing from the denominator. The upstream behavior is
// reproduced as observed; see DESIGN.md before changing it.
func Rank(tagCount int, assocs []Association, profiles []Profile) []MatchResult {
	if tagCount <= 0 || len(assocs) == 0 {
		return []MatchResult{}
	}

	byUser := make(map[uuid.UUID]*MatchResult, len(profiles))
	order := make([]uuid.UUID, 0, len(profiles))
	for _, a := range assocs {
		r, ok := byUser[a.UserID]
		if !ok {
			r = &MatchResult{UserID: a.UserID}
			byUser[a.UserID] = r
			order = append(order, a.UserID)
		}
		r.MatchedSkills = append(r.MatchedSkills, a.SkillName)
		if a.Proficiency != "" {
			r.ProficiencyLevels = append(r.ProficiencyLevels, a.Proficiency)
		}
	}

	profileByUser := make(map[uuid.UUID]Profile, len(profiles))
	for _, p := range profiles {
		profileByUser[p.UserID] = p
	}

	out := make([]MatchResult, 0, len(order))
	for _, id := range order {
		r := byUser[id]
		p := profileByUser[id]
		r.Name = p.Name
		r.Avatar = p.Avatar
		r.Headline = p.Headline
		r.Location = p.Location
		r.Points = p.Points
		r.MatchScore = Score(tagCount, len(r.MatchedSkills), r.ProficiencyLevels, p.Points)
		out = append(out, *r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchScore != out[j].MatchScore {
			return out[i].MatchScore > out[j].MatchScore
		}
		return bytes.Compare(out[i].UserID[:], out[j].UserID[:]) < 0
	})

	return out
}

// Score computes the integer match score for one helper. math.Round is
// half-away-from-zero, so a raw 80.5 pins to 81. The result is not clamped:
// point totals beyond the cap cannot raise it further, but callers must not
// assume a hard 100 ceiling.
func Score(tagCount, matchedCount int, levels []string, points int) int {
	if tagCount <= 0 {
		return 0
	}

	skill := float64(matchedCount) / float64(tagCount) * SkillMatchWeight

	reputation := float64(points) / ReputationCapPoints * ReputationWeight
	if reputation > ReputationWeight {
		reputation = ReputationWeight
	}
	if reputation < 0 {
		reputation = 0
	}

	proficiency := averageProficiency(levels) / proficiencyScale * ProficiencyWeight

	return int(math.Round(skill + reputation + proficiency))
}

// averageProficiency averages the tier values over the levels the helper
// actually recorded. Zero recorded levels falls back to
// DefaultProficiencyValue instead of dividing by zero.
func averageProficiency(levels []string) float64 {
	if len(levels) == 0 {
		return DefaultProficiencyValue
	}
	var sum float64
	for _, lvl := range levels {
		sum += proficiencyValues[strings.ToLower(strings.TrimSpace(lvl))]
	}
	return sum / float64(len(levels))
}
