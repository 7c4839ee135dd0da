package handler

import (
	"time"

	"github.com/msomdec/dev-connect/internal/domain"
	"github.com/msomdec/dev-connect/internal/service"
)

// UserDTO is the JSON representation of a user. The password digest is
// never included.
type UserDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	UserImage string `json:"userImage,omitempty"`
	Date      string `json:"date"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID.Hex(),
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		UserImage: uploadURL(u.UserImage),
		Date:      formatTime(u.CreatedAt),
	}
}

// OwnerDTO is the public summary of a user embedded in other documents.
type OwnerDTO struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar"`
	UserImage string `json:"userImage,omitempty"`
}

func toOwnerDTO(s *service.UserSummary) *OwnerDTO {
	if s == nil {
		return nil
	}
	return &OwnerDTO{
		ID:        s.ID.Hex(),
		Name:      s.Name,
		Email:     s.Email,
		Avatar:    s.Avatar,
		UserImage: uploadURL(s.UserImage),
	}
}

// SocialDTO is the JSON representation of a profile's social links.
type SocialDTO struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// ExperienceDTO is the JSON representation of an experience entry.
type ExperienceDTO struct {
	ID          string  `json:"_id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location,omitempty"`
	From        string  `json:"from"`
	To          *string `json:"to"`
	Current     bool    `json:"current"`
	Description string  `json:"description,omitempty"`
}

// EducationDTO is the JSON representation of an education entry.
type EducationDTO struct {
	ID           string  `json:"_id"`
	School       string  `json:"school"`
	Degree       string  `json:"degree"`
	FieldOfStudy string  `json:"fieldofstudy"`
	From         string  `json:"from"`
	To           *string `json:"to"`
	Current      bool    `json:"current"`
	Description  string  `json:"description,omitempty"`
}

// ProfileDTO is the JSON representation of a profile. User is the owner
// summary when it was resolved and the owner's id otherwise.
type ProfileDTO struct {
	ID             string          `json:"_id"`
	User           any             `json:"user"`
	Company        string          `json:"company,omitempty"`
	Website        string          `json:"website,omitempty"`
	Location       string          `json:"location,omitempty"`
	Bio            string          `json:"bio,omitempty"`
	Status         string          `json:"status"`
	GitHubUsername string          `json:"githubusername,omitempty"`
	Skills         []string        `json:"skills"`
	Social         SocialDTO       `json:"social"`
	Experience     []ExperienceDTO `json:"experience"`
	Education      []EducationDTO  `json:"education"`
	Date           string          `json:"date"`
}

func toProfileDTO(p *domain.Profile) ProfileDTO {
	dto := ProfileDTO{
		ID:             p.ID.Hex(),
		User:           p.UserID.Hex(),
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GitHubUsername: p.GitHubUsername,
		Skills:         p.Skills,
		Social:         SocialDTO(p.Social),
		Experience:     make([]ExperienceDTO, len(p.Experience)),
		Education:      make([]EducationDTO, len(p.Education)),
		Date:           formatTime(p.CreatedAt),
	}
	if dto.Skills == nil {
		dto.Skills = []string{}
	}
	for i, e := range p.Experience {
		dto.Experience[i] = ExperienceDTO{
			ID:          e.ID.Hex(),
			Title:       e.Title,
			Company:     e.Company,
			Location:    e.Location,
			From:        formatTime(e.From),
			To:          formatTimePtr(e.To),
			Current:     e.Current,
			Description: e.Description,
		}
	}
	for i, e := range p.Education {
		dto.Education[i] = EducationDTO{
			ID:           e.ID.Hex(),
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			From:         formatTime(e.From),
			To:           formatTimePtr(e.To),
			Current:      e.Current,
			Description:  e.Description,
		}
	}
	return dto
}

func toProfileViewDTO(v *service.ProfileView) ProfileDTO {
	dto := toProfileDTO(v.Profile)
	if owner := toOwnerDTO(v.Owner); owner != nil {
		dto.User = owner
	}
	return dto
}

func toProfileViewDTOs(views []service.ProfileView) []ProfileDTO {
	dtos := make([]ProfileDTO, len(views))
	for i := range views {
		dtos[i] = toProfileViewDTO(&views[i])
	}
	return dtos
}

// LikeDTO is the JSON representation of a like.
type LikeDTO struct {
	ID   string `json:"_id"`
	User string `json:"user"`
}

func toLikeDTOs(likes []domain.Like) []LikeDTO {
	dtos := make([]LikeDTO, len(likes))
	for i, l := range likes {
		dtos[i] = LikeDTO{ID: l.ID.Hex(), User: l.UserID.Hex()}
	}
	return dtos
}

// CommentDTO is the JSON representation of a comment with its author.
type CommentDTO struct {
	ID        string `json:"_id"`
	User      string `json:"user"`
	Text      string `json:"text"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	UserImage string `json:"userImage,omitempty"`
	Date      string `json:"date"`
}

// PostDTO is the JSON representation of a post with its author.
type PostDTO struct {
	ID        string       `json:"_id"`
	User      string       `json:"user"`
	Text      string       `json:"text"`
	Image     string       `json:"image,omitempty"`
	Name      string       `json:"name"`
	Email     string       `json:"email,omitempty"`
	Avatar    string       `json:"avatar"`
	UserImage string       `json:"userImage,omitempty"`
	Likes     []LikeDTO    `json:"likes"`
	Comments  []CommentDTO `json:"comments"`
	Date      string       `json:"date"`
}

func toPostDTO(v *service.PostView) PostDTO {
	dto := PostDTO{
		ID:       v.ID.Hex(),
		User:     v.UserID.Hex(),
		Text:     v.Text,
		Image:    uploadURL(v.Image),
		Likes:    toLikeDTOs(v.Likes),
		Comments: make([]CommentDTO, len(v.Comments)),
		Date:     formatTime(v.CreatedAt),
	}
	if a := v.Author(); a != nil {
		dto.Name = a.Name
		dto.Email = a.Email
		dto.Avatar = a.Avatar
		dto.UserImage = uploadURL(a.UserImage)
	}
	for i, c := range v.Comments {
		cd := CommentDTO{
			ID:   c.ID.Hex(),
			User: c.UserID.Hex(),
			Text: c.Text,
			Date: formatTime(c.CreatedAt),
		}
		if a := v.People[c.UserID]; a != nil {
			cd.Name = a.Name
			cd.Avatar = a.Avatar
			cd.UserImage = uploadURL(a.UserImage)
		}
		dto.Comments[i] = cd
	}
	return dto
}

func toPostDTOs(views []service.PostView) []PostDTO {
	dtos := make([]PostDTO, len(views))
	for i := range views {
		dtos[i] = toPostDTO(&views[i])
	}
	return dtos
}

// uploadURL turns a stored file key into the path it is served from.
func uploadURL(key string) string {
	if key == "" {
		return ""
	}
	return "/uploads/" + key
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
