package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"helppro/internal/repository"

	"github.com/google/uuid"
)

type mockHelpRequestRepo struct {
	byID map[uuid.UUID]repository.HelpRequest
	err  error

	findCalls int
	created   *repository.HelpRequest
	updated   *repository.HelpRequest
	deletedID uuid.UUID
}

func (m *mockHelpRequestRepo) FindByID(_ context.Context, id uuid.UUID) (repository.HelpRequest, error) {
	m.findCalls++
	if m.err != nil {
		return repository.HelpRequest{}, m.err
	}
	hr, ok := m.byID[id]
	if !ok {
		return repository.HelpRequest{}, repository.ErrHelpRequestNotFound
	}
	return hr, nil
}

func (m *mockHelpRequestRepo) List(context.Context, repository.HelpRequestFilter) ([]repository.HelpRequest, error) {
	return nil, nil
}
func (m *mockHelpRequestRepo) Create(_ context.Context, hr repository.HelpRequest) (repository.HelpRequest, error) {
	if m.err != nil {
		return repository.HelpRequest{}, m.err
	}
	m.created = &hr
	return hr, nil
}
func (m *mockHelpRequestRepo) Update(_ context.Context, hr repository.HelpRequest) (repository.HelpRequest, error) {
	if m.err != nil {
		return repository.HelpRequest{}, m.err
	}
	if _, ok := m.byID[hr.ID]; !ok {
		return repository.HelpRequest{}, repository.ErrHelpRequestNotFound
	}
	m.updated = &hr
	return hr, nil
}
func (m *mockHelpRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[id]; !ok {
		return repository.ErrHelpRequestNotFound
	}
	m.deletedID = id
	return nil
}

type mockSkillRepo struct {
	catalog map[string]repository.Skill
	all     []repository.Skill
	err     error

	resolveCalls int
	listCalls    int
	created      *repository.Skill
}

func (m *mockSkillRepo) GetAllSkills(context.Context) ([]repository.Skill, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.all, nil
}
func (m *mockSkillRepo) ResolveByNames(_ context.Context, names []string) ([]repository.Skill, error) {
	m.resolveCalls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.Skill, 0)
	for _, n := range names {
		if s, ok := m.catalog[n]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}
func (m *mockSkillRepo) CreateSkill(_ context.Context, name, category string) (repository.Skill, error) {
	if m.err != nil {
		return repository.Skill{}, m.err
	}
	s := repository.Skill{ID: uuid.New(), Name: name, Category: category}
	m.created = &s
	return s, nil
}

type mockUserSkillRepo struct {
	assocs []repository.UserSkill
	err    error

	// single pre-existing association for the CRUD tests
	existing     *repository.UserSkill
	missingSkill bool

	gotSkillIDs []uuid.UUID
	gotExclude  uuid.UUID
	created     *repository.UserSkill
}

func (m *mockUserSkillRepo) FindByUserID(context.Context, uuid.UUID) ([]repository.UserSkill, error) {
	return nil, nil
}
func (m *mockUserSkillRepo) FindBySkillIDs(_ context.Context, skillIDs []uuid.UUID, exclude uuid.UUID) ([]repository.UserSkill, error) {
	m.gotSkillIDs = skillIDs
	m.gotExclude = exclude
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.UserSkill, 0)
	for _, a := range m.assocs {
		if a.UserID == exclude {
			continue
		}
		for _, id := range skillIDs {
			if a.SkillID == id {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}
func (m *mockUserSkillRepo) FindByUserAndSkill(_ context.Context, userID, skillID uuid.UUID) (repository.UserSkill, error) {
	if m.err != nil {
		return repository.UserSkill{}, m.err
	}
	if m.existing != nil && m.existing.UserID == userID && m.existing.SkillID == skillID {
		return *m.existing, nil
	}
	return repository.UserSkill{}, repository.ErrUserSkillNotFound
}
func (m *mockUserSkillRepo) SkillExistsByID(context.Context, uuid.UUID) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return !m.missingSkill, nil
}
func (m *mockUserSkillRepo) Create(_ context.Context, us repository.UserSkill) (repository.UserSkill, error) {
	if m.err != nil {
		return repository.UserSkill{}, m.err
	}
	m.created = &us
	return us, nil
}
func (m *mockUserSkillRepo) Update(_ context.Context, us repository.UserSkill) (repository.UserSkill, error) {
	if m.err != nil {
		return repository.UserSkill{}, m.err
	}
	if m.existing == nil || m.existing.ID != us.ID || m.existing.UserID != us.UserID {
		return repository.UserSkill{}, repository.ErrUserSkillNotFound
	}
	out := *m.existing
	out.Proficiency = us.Proficiency
	return out, nil
}
func (m *mockUserSkillRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	if m.existing == nil || m.existing.ID != id {
		return repository.ErrUserSkillNotFound
	}
	if m.existing.UserID != userID {
		return repository.ErrUserSkillForbidden
	}
	m.existing = nil
	return nil
}

type mockProfileRepo struct {
	byUser map[uuid.UUID]repository.Profile
	err    error

	gotUserIDs []uuid.UUID
}

func (m *mockProfileRepo) FindByUserID(_ context.Context, id uuid.UUID) (repository.Profile, error) {
	p, ok := m.byUser[id]
	if !ok {
		return repository.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}
func (m *mockProfileRepo) FindByUserIDs(_ context.Context, ids []uuid.UUID) ([]repository.Profile, error) {
	m.gotUserIDs = ids
	if m.err != nil {
		return nil, m.err
	}
	out := make([]repository.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.byUser[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
func (m *mockProfileRepo) Update(_ context.Context, p repository.Profile) (repository.Profile, error) {
	return p, nil
}

type matcherFixture struct {
	requestID uuid.UUID
	requester uuid.UUID
	helper    uuid.UUID

	helpRequests *mockHelpRequestRepo
	skills       *mockSkillRepo
	userSkills   *mockUserSkillRepo
	profiles     *mockProfileRepo

	uc *Matcher
}

func newMatcherFixture(tags []string) *matcherFixture {
	f := &matcherFixture{
		requestID: uuid.New(),
		requester: uuid.New(),
		helper:    uuid.New(),
	}

	reactID := uuid.MustParse("11111111-0000-4000-8000-000000000001")
	nodeID := uuid.MustParse("11111111-0000-4000-8000-000000000002")

	f.helpRequests = &mockHelpRequestRepo{byID: map[uuid.UUID]repository.HelpRequest{
		f.requestID: {ID: f.requestID, RequesterID: f.requester, Title: "Debug my app", Tags: tags},
	}}
	f.skills = &mockSkillRepo{catalog: map[string]repository.Skill{
		"React":   {ID: reactID, Name: "React"},
		"Node.js": {ID: nodeID, Name: "Node.js"},
	}}
	f.userSkills = &mockUserSkillRepo{assocs: []repository.UserSkill{
		{ID: uuid.New(), UserID: f.helper, SkillID: reactID, SkillName: "React", Proficiency: "expert"},
		{ID: uuid.New(), UserID: f.helper, SkillID: nodeID, SkillName: "Node.js", Proficiency: "advanced"},
		// The requester also knows React; they must never match themselves.
		{ID: uuid.New(), UserID: f.requester, SkillID: reactID, SkillName: "React", Proficiency: "expert"},
	}}
	f.profiles = &mockProfileRepo{byUser: map[uuid.UUID]repository.Profile{
		f.helper:    {UserID: f.helper, Name: "Avery", Points: 500},
		f.requester: {UserID: f.requester, Name: "Dana", Points: 900},
	}}

	f.uc = NewMatcherUsecase(f.helpRequests, f.skills, f.userSkills, f.profiles)
	return f
}

func TestFindMatches_UnknownRequest(t *testing.T) {
	f := newMatcherFixture([]string{"React"})
	_, err := f.uc.FindMatches(context.Background(), uuid.New())
	if !errors.Is(err, ErrHelpRequestNotFound) {
		t.Fatalf("expected ErrHelpRequestNotFound, got %v", err)
	}
}

func TestFindMatches_EmptyTags(t *testing.T) {
	f := newMatcherFixture(nil)
	got, err := f.uc.FindMatches(context.Background(), f.requestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty matches, got %d", len(got))
	}
	if f.skills.resolveCalls != 0 {
		t.Fatalf("expected no catalog resolution for empty tags")
	}
}

func TestFindMatches_UnresolvableTags(t *testing.T) {
	f := newMatcherFixture([]string{"COBOL"})
	got, err := f.uc.FindMatches(context.Background(), f.requestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty matches for off-catalog tags, got %d", len(got))
	}
}

func TestFindMatches_ExcludesRequester(t *testing.T) {
	f := newMatcherFixture([]string{"React", "Node.js"})
	got, err := f.uc.FindMatches(context.Background(), f.requestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.userSkills.gotExclude != f.requester {
		t.Fatalf("expected requester passed as exclusion, got %v", f.userSkills.gotExclude)
	}
	for _, r := range got {
		if r.UserID == f.requester {
			t.Fatalf("requester appeared in their own match list")
		}
	}
}

func TestFindMatches_HappyPath(t *testing.T) {
	f := newMatcherFixture([]string{"React", "Node.js"})
	got, err := f.uc.FindMatches(context.Background(), f.requestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	if got[0].UserID != f.helper || got[0].Name != "Avery" {
		t.Fatalf("unexpected match: %+v", got[0])
	}
	if got[0].MatchScore != 81 {
		t.Fatalf("expected score 81, got %d", got[0].MatchScore)
	}

	// Profiles must be fetched for exactly the matched users.
	if len(f.profiles.gotUserIDs) != 1 || f.profiles.gotUserIDs[0] != f.helper {
		t.Fatalf("expected profile fetch for exactly the helper, got %v", f.profiles.gotUserIDs)
	}
}

func TestFindMatches_DenominatorIncludesUnresolvedTags(t *testing.T) {
	// Three declared tags, only two resolvable. Full overlap on the
	// resolved pair still only scores 2/3 of the overlap weight.
	f := newMatcherFixture([]string{"React", "Node.js", "COBOL"})
	got, err := f.uc.FindMatches(context.Background(), f.requestID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}
	// skill 2/3*40 = 26.667, reputation 15, proficiency 25.5 -> 67.167 -> 67
	if got[0].MatchScore != 67 {
		t.Fatalf("expected score 67, got %d", got[0].MatchScore)
	}
}

func TestFindMatches_LookupFailuresWrapCause(t *testing.T) {
	cases := []struct {
		name  string
		wound func(f *matcherFixture)
	}{
		{"help request load", func(f *matcherFixture) { f.helpRequests.err = errors.New("connection reset") }},
		{"catalog resolution", func(f *matcherFixture) { f.skills.err = errors.New("connection reset") }},
		{"association fetch", func(f *matcherFixture) { f.userSkills.err = errors.New("connection reset") }},
		{"profile fetch", func(f *matcherFixture) { f.profiles.err = errors.New("connection reset") }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMatcherFixture([]string{"React"})
			tc.wound(f)

			_, err := f.uc.FindMatches(context.Background(), f.requestID)
			if !errors.Is(err, ErrMatchLookupFailed) {
				t.Fatalf("expected ErrMatchLookupFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), "connection reset") {
				t.Fatalf("expected underlying cause preserved, got %q", err.Error())
			}
		})
	}
}
