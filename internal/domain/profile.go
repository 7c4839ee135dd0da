package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Profile is the developer profile owned by exactly one user.
type Profile struct {
	ID             bson.ObjectID `bson:"_id"`
	UserID         bson.ObjectID `bson:"user"`
	Company        string        `bson:"company,omitempty"`
	Website        string        `bson:"website,omitempty"`
	Location       string        `bson:"location,omitempty"`
	Bio            string        `bson:"bio,omitempty"`
	Status         string        `bson:"status"`
	GitHubUsername string        `bson:"githubusername,omitempty"`
	Skills         []string      `bson:"skills"`
	Social         Social        `bson:"social"`
	Experience     []Experience  `bson:"experience"`
	Education      []Education   `bson:"education"`
	CreatedAt      time.Time     `bson:"date"`
}

// Social holds optional links to the owner's social accounts.
type Social struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

// Experience is one job entry embedded in a profile.
type Experience struct {
	ID          bson.ObjectID `bson:"_id"`
	Title       string        `bson:"title"`
	Company     string        `bson:"company"`
	Location    string        `bson:"location,omitempty"`
	From        time.Time     `bson:"from"`
	To          *time.Time    `bson:"to,omitempty"`
	Current     bool          `bson:"current"`
	Description string        `bson:"description,omitempty"`
}

func (e Experience) EntryID() bson.ObjectID       { return e.ID }
func (e *Experience) SetEntryID(id bson.ObjectID) { e.ID = id }

// Education is one school entry embedded in a profile.
type Education struct {
	ID           bson.ObjectID `bson:"_id"`
	School       string        `bson:"school"`
	Degree       string        `bson:"degree"`
	FieldOfStudy string        `bson:"fieldofstudy"`
	From         time.Time     `bson:"from"`
	To           *time.Time    `bson:"to,omitempty"`
	Current      bool          `bson:"current"`
	Description  string        `bson:"description,omitempty"`
}

func (e Education) EntryID() bson.ObjectID       { return e.ID }
func (e *Education) SetEntryID(id bson.ObjectID) { e.ID = id }

// ProfileRepository defines persistence operations for profiles.
// Update replaces the whole stored document, embedded collections included.
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByUser(ctx context.Context, userID bson.ObjectID) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Update(ctx context.Context, profile *Profile) error
	DeleteByUser(ctx context.Context, userID bson.ObjectID) error
}
