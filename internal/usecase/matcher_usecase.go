package usecase

import (
	"context"
	"errors"
	"fmt"

	"helppro/internal/domain/matching"
	"helppro/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrHelpRequestNotFound = errors.New("help request not found")

	// ErrMatchLookupFailed wraps any downstream read failure during
	// matching. The underlying message is preserved so callers can tell
	// "no matches exist" apart from "matching could not be computed".
	ErrMatchLookupFailed = errors.New("match lookup failed")
)

type MatcherUsecase interface {
	FindMatches(ctx context.Context, helpRequestID uuid.UUID) ([]matching.MatchResult, error)
}

type Matcher struct {
	helpRequests repository.HelpRequestRepository
	skills       repository.SkillRepository
	userSkills   repository.UserSkillRepository
	profiles     repository.ProfileRepository
}

func NewMatcherUsecase(
	helpRequests repository.HelpRequestRepository,
	skills repository.SkillRepository,
	userSkills repository.UserSkillRepository,
	profiles repository.ProfileRepository,
) *Matcher {
	return &Matcher{
		helpRequests: helpRequests,
		skills:       skills,
		userSkills:   userSkills,
		profiles:     profiles,
	}
}

// FindMatches returns the helpers for a help request ranked by suitability.
// Read-only: four sequential lookups (request, catalog, associations,
// profiles) feeding the pure scoring engine. Any lookup failure aborts the
// whole chain; a partial ranking is never returned.
func (u *Matcher) FindMatches(ctx context.Context, helpRequestID uuid.UUID) ([]matching.MatchResult, error) {
	if helpRequestID == uuid.Nil {
		return nil, ErrHelpRequestNotFound
	}

	hr, err := u.helpRequests.FindByID(ctx, helpRequestID)
	if err != nil {
		if errors.Is(err, repository.ErrHelpRequestNotFound) {
			return nil, ErrHelpRequestNotFound
		}
		return nil, lookupFailed("load help request", err)
	}

	// A request with no declared technology has nothing to match against.
	if len(hr.Tags) == 0 {
		return []matching.MatchResult{}, nil
	}

	resolved, err := u.skills.ResolveByNames(ctx, hr.Tags)
	if err != nil {
		return nil, lookupFailed("resolve skill catalog", err)
	}
	if len(resolved) == 0 {
		// None of the tags exist in the catalog; unknown tags cannot
		// match any helper.
		return []matching.MatchResult{}, nil
	}

	skillIDs := make([]uuid.UUID, 0, len(resolved))
	for _, s := range resolved {
		skillIDs = append(skillIDs, s.ID)
	}

	assocs, err := u.userSkills.FindBySkillIDs(ctx, skillIDs, hr.RequesterID)
	if err != nil {
		return nil, lookupFailed("load skill associations", err)
	}
	if len(assocs) == 0 {
		return []matching.MatchResult{}, nil
	}

	candidateIDs := make([]uuid.UUID, 0, len(assocs))
	seen := make(map[uuid.UUID]struct{}, len(assocs))
	for _, a := range assocs {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		candidateIDs = append(candidateIDs, a.UserID)
	}

	profiles, err := u.profiles.FindByUserIDs(ctx, candidateIDs)
	if err != nil {
		return nil, lookupFailed("load helper profiles", err)
	}

	engineAssocs := make([]matching.Association, 0, len(assocs))
	for _, a := range assocs {
		engineAssocs = append(engineAssocs, matching.Association{
			UserID:      a.UserID,
			SkillName:   a.SkillName,
			Proficiency: a.Proficiency,
		})
	}

	engineProfiles := make([]matching.Profile, 0, len(profiles))
	for _, p := range profiles {
		engineProfiles = append(engineProfiles, matching.Profile{
			UserID:   p.UserID,
			Name:     p.Name,
			Avatar:   p.Avatar,
			Headline: p.Headline,
			Location: p.Location,
			Points:   p.Points,
		})
	}

	// len(hr.Tags) is the denominator on purpose, resolved or not.
	return matching.Rank(len(hr.Tags), engineAssocs, engineProfiles), nil
}

func lookupFailed(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrMatchLookupFailed, stage, err)
}
