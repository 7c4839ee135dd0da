package service_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestProfileService_UpsertCreatesThenUpdates(t *testing.T) {
	s := newTestStack(t, nil)
	ctx := context.Background()

	alice := s.register(t, "Alice", "alice@example.com")
	if _, err := s.auth.Login(ctx, "alice@example.com", "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	view, err := s.profiles.Upsert(ctx, alice.ID, service.ProfileInput{
		Status:   "Developer",
		Skills:   " js, ,go ",
		Company:  "Acme",
		Social:   domain.Social{Twitter: "https://twitter.com/alice"},
		Location: "Berlin",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !slices.Equal(view.Skills, []string{"js", "go"}) {
		t.Fatalf("expected skills [js go], got %v", view.Skills)
	}
	if view.Owner == nil || view.Owner.Name != "Alice" {
		t.Fatalf("expected owner Alice, got %+v", view.Owner)
	}

	if _, err := s.profiles.AddExperience(ctx, alice.ID, service.EntryInput{
		Title: "Engineer", Company: "Acme", From: "2020-01-02",
	}); err != nil {
		t.Fatalf("AddExperience: %v", err)
	}

	updated, err := s.profiles.Upsert(ctx, alice.ID, service.ProfileInput{
		Status: "Senior Developer",
		Skills: "go",
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if updated.ID != view.ID {
		t.Fatalf("expected update in place, id changed from %s to %s", view.ID.Hex(), updated.ID.Hex())
	}
	if updated.Status != "Senior Developer" {
		t.Fatalf("expected new status, got %q", updated.Status)
	}
	if updated.Company != "Acme" || updated.Location != "Berlin" {
		t.Fatalf("expected omitted scalars to be kept, got company=%q location=%q", updated.Company, updated.Location)
	}
	if updated.Social.Twitter != "" {
		t.Fatalf("expected social links to be replaced, got %+v", updated.Social)
	}
	if len(updated.Experience) != 1 {
		t.Fatalf("expected experience to survive the update, got %d entries", len(updated.Experience))
	}

	all, err := s.profiles.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one profile per user, got %d", len(all))
	}
}

// staleProfiles misses the first lookup, as a request racing another
// request's first save would.
type staleProfiles struct {
	domain.ProfileRepository
	missed bool
}

func (r *staleProfiles) GetByUser(ctx context.Context, userID bson.ObjectID) (*domain.Profile, error) {
	if !r.missed {
		r.missed = true
		return nil, domain.ErrNotFound
	}
	return r.ProfileRepository.GetByUser(ctx, userID)
}

func TestProfileService_UpsertConcurrentCreate(t *testing.T) {
	s := newTestStack(t, nil)
	ctx := context.Background()
	alice := s.register(t, "Alice", "alice@example.com")

	if _, err := s.profiles.Upsert(ctx, alice.ID, service.ProfileInput{Status: "Developer", Skills: "go"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	profiles := service.NewProfileService(&staleProfiles{ProfileRepository: s.db.Profiles()}, s.db.Users(), s.images, nil)
	view, err := profiles.Upsert(ctx, alice.ID, service.ProfileInput{Status: "Lead", Skills: "go,rust"})
	if err != nil {
		t.Fatalf("Upsert after lost race: %v", err)
	}
	if view.Status != "Lead" {
		t.Fatalf("expected status Lead, got %q", view.Status)
	}

	all, err := s.profiles.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 || all[0].Status != "Lead" {
		t.Fatalf("expected one updated profile, got %+v", all)
	}
}

func TestProfileService_UpsertValidation(t *testing.T) {
	s := newTestStack(t, nil)
	alice := s.register(t, "Alice", "alice@example.com")

	tests := []struct {
		name   string
		in     service.ProfileInput
		params []string
	}{
		{"empty", service.ProfileInput{}, []string{"status", "skills"}},
		{"blank skills", service.ProfileInput{Status: "Dev", Skills: " , "}, []string{"skills"}},
		{"blank status", service.ProfileInput{Status: "  ", Skills: "go"}, []string{"status"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.profiles.Upsert(context.Background(), alice.ID, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			var got []string
			for _, fe := range verr.Errors {
				got = append(got, fe.Param)
			}
			if !slices.Equal(got, tc.params) {
				t.Fatalf("expected params %v, got %v", tc.params, got)
			}
		})
	}
}

func TestProfileService_GetByUser_NotFound(t *testing.T) {
	s := newTestStack(t, nil)
	alice := s.register(t, "Alice", "alice@example.com")

	if _, err := s.profiles.GetByUser(context.Background(), alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.profiles.AddExperience(context.Background(), alice.ID, service.EntryInput{
		Title: "Engineer", Company: "Acme", From: "2020-01-02",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a profile, got %v", err)
	}
}

func newProfile(t *testing.T, s *testStack, name, email string) *domain.User {
	t.Helper()
	user := s.register(t, name, email)
	if _, err := s.profiles.Upsert(context.Background(), user.ID, service.ProfileInput{Status: "Developer", Skills: "go"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	return user
}

func TestProfileService_Experience(t *testing.T) {
	s := newTestStack(t, nil)
	ctx := context.Background()
	alice := newProfile(t, s, "Alice", "alice@example.com")

	first, err := s.profiles.AddExperience(ctx, alice.ID, service.EntryInput{
		Title: "Intern", Company: "Acme", From: "2018-06-01", To: "2019-01-01",
	})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}
	if first.Experience[0].To == nil {
		t.Fatal("expected To to be set")
	}

	p, err := s.profiles.AddExperience(ctx, alice.ID, service.EntryInput{
		Title: "Engineer", Company: "Acme", From: "2019-02-01T00:00:00Z", To: "2020-01-01", Current: true,
	})
	if err != nil {
		t.Fatalf("AddExperience: %v", err)
	}
	if len(p.Experience) != 2 || p.Experience[0].Title != "Engineer" {
		t.Fatalf("expected newest entry first, got %+v", p.Experience)
	}
	if p.Experience[0].To != nil {
		t.Fatal("expected To to be dropped for a current position")
	}
	want := time.Date(2019, 2, 1, 0, 0, 0, 0, time.UTC)
	if !p.Experience[0].From.Equal(want) {
		t.Fatalf("expected From %v, got %v", want, p.Experience[0].From)
	}

	unchanged, err := s.profiles.RemoveExperience(ctx, alice.ID, bson.NewObjectID())
	if err != nil {
		t.Fatalf("RemoveExperience unknown: %v", err)
	}
	if len(unchanged.Experience) != 2 {
		t.Fatalf("expected unknown id removal to be a no-op, got %d entries", len(unchanged.Experience))
	}

	p, err = s.profiles.RemoveExperience(ctx, alice.ID, p.Experience[0].ID)
	if err != nil {
		t.Fatalf("RemoveExperience: %v", err)
	}
	if len(p.Experience) != 1 || p.Experience[0].Title != "Intern" {
		t.Fatalf("expected only the intern entry to remain, got %+v", p.Experience)
	}

	stored, err := s.profiles.GetByUser(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByUser: %v", err)
	}
	if len(stored.Experience) != 1 {
		t.Fatalf("expected removal to be persisted, got %d entries", len(stored.Experience))
	}
}

func TestProfileService_ExperienceValidation(t *testing.T) {
	s := newTestStack(t, nil)
	alice := newProfile(t, s, "Alice", "alice@example.com")

	tests := []struct {
		name string
		in   service.EntryInput
		msgs []string
	}{
		{"empty", service.EntryInput{}, []string{"Title is required", "Company is required", "From date is required"}},
		{"bad from", service.EntryInput{Title: "T", Company: "C", From: "yesterday"}, []string{"From date is invalid"}},
		{"bad to", service.EntryInput{Title: "T", Company: "C", From: "2020-01-01", To: "soon"}, []string{"To date is invalid"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.profiles.AddExperience(context.Background(), alice.ID, tc.in)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			var got []string
			for _, fe := range verr.Errors {
				got = append(got, fe.Msg)
			}
			if !slices.Equal(got, tc.msgs) {
				t.Fatalf("expected %v, got %v", tc.msgs, got)
			}
		})
	}
}

func TestProfileService_Education(t *testing.T) {
	s := newTestStack(t, nil)
	ctx := context.Background()
	alice := newProfile(t, s, "Alice", "alice@example.com")

	if _, err := s.profiles.AddEducation(ctx, alice.ID, service.EntryInput{School: "MIT"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected validation error, got %v", err)
	}

	p, err := s.profiles.AddEducation(ctx, alice.ID, service.EntryInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01",
	})
	if err != nil {
		t.Fatalf("AddEducation: %v", err)
	}
	if len(p.Education) != 1 || p.Education[0].ID.IsZero() {
		t.Fatalf("expected one education entry with an id, got %+v", p.Education)
	}

	p, err = s.profiles.RemoveEducation(ctx, alice.ID, p.Education[0].ID)
	if err != nil {
		t.Fatalf("RemoveEducation: %v", err)
	}
	if len(p.Education) != 0 {
		t.Fatalf("expected no education entries, got %d", len(p.Education))
	}
}

func TestProfileService_DeleteAccount(t *testing.T) {
	s := newTestStack(t, nil)
	ctx := context.Background()
	alice := newProfile(t, s, "Alice", "alice@example.com")
	bob := s.register(t, "Bob", "bob@example.com")

	if err := s.profiles.DeleteAccount(ctx, alice.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if _, err := s.auth.CurrentUser(ctx, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	if _, err := s.profiles.GetByUser(ctx, alice.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected profile to be gone, got %v", err)
	}

	// No profile is fine.
	if err := s.profiles.DeleteAccount(ctx, bob.ID); err != nil {
		t.Fatalf("DeleteAccount without profile: %v", err)
	}
	if err := s.profiles.DeleteAccount(ctx, bob.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestProfileService_ListResolvesOwners(t *testing.T) {
	s := newTestStack(t, nil)
	newProfile(t, s, "Alice", "alice@example.com")
	newProfile(t, s, "Bob", "bob@example.com")

	views, err := s.profiles.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(views))
	}
	for _, v := range views {
		if v.Owner == nil || v.Owner.ID != v.UserID {
			t.Fatalf("expected owner to match profile user, got %+v", v.Owner)
		}
	}
}

func TestProfileService_GitHubRepos(t *testing.T) {
	srv := newGitHubStub(t)
	s := newTestStack(t, service.NewGitHubClient(srv.URL, time.Second))

	body, err := s.profiles.GitHubRepos(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("GitHubRepos: %v", err)
	}
	if len(body) == 0 {
		t.Fatal("expected a body")
	}

	unconfigured := newTestStack(t, nil)
	if _, err := unconfigured.profiles.GitHubRepos(context.Background(), "octocat"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a client, got %v", err)
	}
}
