package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kannan-innovates/zenCode"
)

// userDoc is the BSON shape of an identity record. The password field is
// absent until the account has set one.
type userDoc struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty"`
	FullName           string              `bson:"fullName"`
	Email              string              `bson:"email"`
	Password           string              `bson:"password,omitempty"`
	Role               zencode.Role        `bson:"role"`
	IsBlocked          bool                `bson:"isBlocked"`
	IsEmailVerified    bool                `bson:"isEmailVerified"`
	MustChangePassword bool                `bson:"mustChangePassword"`
	Expertise          []string            `bson:"expertise,omitempty"`
	ExperienceLevel    string              `bson:"experienceLevel,omitempty"`
	CreatedByAdminID   *primitive.ObjectID `bson:"createdByAdminId,omitempty"`
	LastActiveDate     *time.Time          `bson:"lastActiveDate,omitempty"`
	CreatedAt          time.Time           `bson:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt"`
}

func (d *userDoc) toUser() *zencode.User {
	u := &zencode.User{
		ID:                 d.ID.Hex(),
		FullName:           d.FullName,
		Email:              d.Email,
		PasswordHash:       d.Password,
		Role:               d.Role,
		IsBlocked:          d.IsBlocked,
		IsEmailVerified:    d.IsEmailVerified,
		MustChangePassword: d.MustChangePassword,
		Expertise:          d.Expertise,
		ExperienceLevel:    d.ExperienceLevel,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	if d.CreatedByAdminID != nil {
		u.CreatedByAdminID = d.CreatedByAdminID.Hex()
	}
	if d.LastActiveDate != nil {
		u.LastActiveAt = *d.LastActiveDate
	}
	return u
}

// Mongo is a UserStore backed by a MongoDB collection. Email uniqueness
// is enforced by a unique index; callers must run EnsureIndexes once at
// startup before serving traffic.
type Mongo struct {
	users *mongo.Collection
}

// NewMongo wraps the users collection of db.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{users: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the role/isBlocked
// listing index. Safe to call on every startup.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "role", Value: 1}, {Key: "isBlocked", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	return nil
}

func (m *Mongo) FindByEmail(ctx context.Context, email string) (*zencode.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *Mongo) FindByID(ctx context.Context, id string) (*zencode.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// A malformed id cannot match any document.
		return nil, nil
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *Mongo) findOne(ctx context.Context, filter bson.M) (*zencode.User, error) {
	var doc userDoc
	err := m.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

func (m *Mongo) Create(ctx context.Context, n zencode.NewUser) (*zencode.User, error) {
	now := time.Now().UTC()
	doc := userDoc{
		ID:                 primitive.NewObjectID(),
		FullName:           n.FullName,
		Email:              n.Email,
		Password:           n.PasswordHash,
		Role:               n.Role,
		IsEmailVerified:    n.IsEmailVerified,
		MustChangePassword: n.MustChangePassword,
		Expertise:          n.Expertise,
		ExperienceLevel:    n.ExperienceLevel,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if n.CreatedByAdminID != "" {
		oid, err := primitive.ObjectIDFromHex(n.CreatedByAdminID)
		if err == nil {
			doc.CreatedByAdminID = &oid
		}
	}

	if _, err := m.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, zencode.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toUser(), nil
}

func (m *Mongo) Update(ctx context.Context, id string, upd zencode.UserUpdate) (*zencode.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("update user: invalid id %q", id)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.PasswordHash != nil {
		set["password"] = *upd.PasswordHash
	}
	if upd.IsBlocked != nil {
		set["isBlocked"] = *upd.IsBlocked
	}
	if upd.IsEmailVerified != nil {
		set["isEmailVerified"] = *upd.IsEmailVerified
	}
	if upd.MustChangePassword != nil {
		set["mustChangePassword"] = *upd.MustChangePassword
	}
	if upd.LastActiveAt != nil {
		set["lastActiveDate"] = upd.LastActiveAt.UTC()
	}

	var doc userDoc
	after := options.After
	err = m.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(after),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("update user %s: not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toUser(), nil
}
