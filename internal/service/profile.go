package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserSummary is the public part of a user shown next to the things they own.
type UserSummary struct {
	ID        bson.ObjectID
	Name      string
	Email     string
	Avatar    string
	UserImage string
}

func summarize(u *domain.User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar, UserImage: u.UserImage}
}

// ProfileView is a profile together with its owner. Owner is nil when the
// owning user no longer exists.
type ProfileView struct {
	*domain.Profile
	Owner *UserSummary
}

// ProfileInput carries the editable profile fields. Skills is a comma
// separated list.
type ProfileInput struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GitHubUsername string
	Skills         string
	Social         domain.Social
}

// EntryInput carries the fields of a new experience or education entry.
// From and To accept RFC 3339 timestamps or YYYY-MM-DD dates.
type EntryInput struct {
	Title        string
	Company      string
	School       string
	Degree       string
	FieldOfStudy string
	Location     string
	From         string
	To           string
	Current      bool
	Description  string
}

// ProfileService manages developer profiles and account removal.
type ProfileService struct {
	profiles domain.ProfileRepository
	users    domain.UserRepository
	images   *ImageService
	github   *GitHubClient
}

// NewProfileService creates a new ProfileService.
func NewProfileService(profiles domain.ProfileRepository, users domain.UserRepository, images *ImageService, github *GitHubClient) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		images:   images,
		github:   github,
	}
}

// List returns every profile with its owner.
func (s *ProfileService) List(ctx context.Context) ([]ProfileView, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	owners := make(map[bson.ObjectID]*UserSummary)
	views := make([]ProfileView, len(profiles))
	for i := range profiles {
		owner, err := s.owner(ctx, profiles[i].UserID, owners)
		if err != nil {
			return nil, err
		}
		views[i] = ProfileView{Profile: &profiles[i], Owner: owner}
	}
	return views, nil
}

// GetByUser returns the profile owned by userID with its owner.
func (s *ProfileService) GetByUser(ctx context.Context, userID bson.ObjectID) (*ProfileView, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	owner, err := s.owner(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: profile, Owner: owner}, nil
}

// Upsert creates the caller's profile or updates it in place. Scalar fields
// are only applied when non-empty; social links are replaced as a whole.
// Experience and education entries are preserved.
func (s *ProfileService) Upsert(ctx context.Context, userID bson.ObjectID, in ProfileInput) (*ProfileView, error) {
	verr := &domain.ValidationError{}
	if strings.TrimSpace(in.Status) == "" {
		verr.Add("status", "Status is required")
	}
	skills := splitSkills(in.Skills)
	if len(skills) == 0 {
		verr.Add("skills", "Skills is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	view, err := s.save(ctx, userID, in, skills)
	if errors.Is(err, domain.ErrDuplicateProfile) {
		// A concurrent request created the profile first; update that one.
		view, err = s.save(ctx, userID, in, skills)
	}
	return view, err
}

// save applies in to the stored profile, creating it when there is none.
func (s *ProfileService) save(ctx context.Context, userID bson.ObjectID, in ProfileInput, skills []string) (*ProfileView, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	create := errors.Is(err, domain.ErrNotFound)
	if err != nil && !create {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if create {
		profile = &domain.Profile{
			ID:         bson.NewObjectID(),
			UserID:     userID,
			Experience: []domain.Experience{},
			Education:  []domain.Education{},
			CreatedAt:  time.Now().UTC(),
		}
	}

	setIfPresent(&profile.Company, in.Company)
	setIfPresent(&profile.Website, in.Website)
	setIfPresent(&profile.Location, in.Location)
	setIfPresent(&profile.Bio, in.Bio)
	setIfPresent(&profile.Status, in.Status)
	setIfPresent(&profile.GitHubUsername, in.GitHubUsername)
	profile.Skills = skills
	profile.Social = in.Social

	if create {
		err = s.profiles.Create(ctx, profile)
	} else {
		err = s.profiles.Update(ctx, profile)
	}
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	owner, err := s.owner(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return &ProfileView{Profile: profile, Owner: owner}, nil
}

// AddExperience inserts a new experience entry at the front of the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID bson.ObjectID, in EntryInput) (*domain.Profile, error) {
	verr := &domain.ValidationError{}
	required(verr, "title", in.Title, "Title is required")
	required(verr, "company", in.Company, "Company is required")
	from, to := entryDates(verr, in)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(p *domain.Profile) {
		p.Experience, _ = InsertFront(p.Experience, domain.Experience{
			Title:       strings.TrimSpace(in.Title),
			Company:     strings.TrimSpace(in.Company),
			Location:    in.Location,
			From:        from,
			To:          to,
			Current:     in.Current,
			Description: in.Description,
		})
	})
}

// RemoveExperience deletes the experience entry with the given id. An unknown
// id leaves the profile unchanged.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID bson.ObjectID) (*domain.Profile, error) {
	return s.mutate(ctx, userID, func(p *domain.Profile) {
		p.Experience, _ = RemoveByID(p.Experience, entryID)
	})
}

// AddEducation inserts a new education entry at the front of the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID bson.ObjectID, in EntryInput) (*domain.Profile, error) {
	verr := &domain.ValidationError{}
	required(verr, "school", in.School, "School is required")
	required(verr, "degree", in.Degree, "Degree is required")
	required(verr, "fieldofstudy", in.FieldOfStudy, "Field of study is required")
	from, to := entryDates(verr, in)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, userID, func(p *domain.Profile) {
		p.Education, _ = InsertFront(p.Education, domain.Education{
			School:       strings.TrimSpace(in.School),
			Degree:       strings.TrimSpace(in.Degree),
			FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
			From:         from,
			To:           to,
			Current:      in.Current,
			Description:  in.Description,
		})
	})
}

// RemoveEducation deletes the education entry with the given id. An unknown
// id leaves the profile unchanged.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID bson.ObjectID) (*domain.Profile, error) {
	return s.mutate(ctx, userID, func(p *domain.Profile) {
		p.Education, _ = RemoveByID(p.Education, entryID)
	})
}

// DeleteAccount removes the caller's profile and then the user itself.
// A missing profile is not an error.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.profiles.DeleteByUser(ctx, userID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete profile: %w", err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if user.UserImage != "" && s.images != nil {
		if err := s.images.Delete(ctx, user.UserImage); err != nil {
			slog.Warn("delete user image", "user_id", userID.Hex(), "error", err)
		}
	}
	return nil
}

// GitHubRepos returns the latest public repositories of a GitHub user,
// exactly as GitHub reported them.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	if s.github == nil {
		return nil, fmt.Errorf("github repos: %w", domain.ErrNotFound)
	}
	return s.github.Repos(ctx, username)
}

// mutate loads the caller's profile, applies fn and saves the whole document once.
func (s *ProfileService) mutate(ctx context.Context, userID bson.ObjectID, fn func(*domain.Profile)) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	fn(profile)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// owner looks up the summary for userID, consulting and filling cache when non-nil.
func (s *ProfileService) owner(ctx context.Context, userID bson.ObjectID, cache map[bson.ObjectID]*UserSummary) (*UserSummary, error) {
	if cache != nil {
		if o, ok := cache[userID]; ok {
			return o, nil
		}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile owner: %w", err)
	}
	o := summarize(user)
	if cache != nil {
		cache[userID] = o
	}
	return o, nil
}

func splitSkills(raw string) []string {
	var skills []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func required(verr *domain.ValidationError, param, value, msg string) {
	if strings.TrimSpace(value) == "" {
		verr.Add(param, msg)
	}
}

func entryDates(verr *domain.ValidationError, in EntryInput) (time.Time, *time.Time) {
	var from time.Time
	if strings.TrimSpace(in.From) == "" {
		verr.Add("from", "From date is required")
	} else if t, ok := parseDate(in.From); ok {
		from = t
	} else {
		verr.Add("from", "From date is invalid")
	}

	if in.Current || strings.TrimSpace(in.To) == "" {
		return from, nil
	}
	to, ok := parseDate(in.To)
	if !ok {
		verr.Add("to", "To date is invalid")
		return from, nil
	}
	return from, &to
}

func parseDate(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
