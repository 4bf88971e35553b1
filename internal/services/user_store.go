package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/journalify-backend/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrJournalNotFound = errors.New("journal entry not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrStaleWrite      = errors.New("journal entry has a newer version")
)

// SaveContent describes an overwrite of one entry's content. When IfNotAfter
// is set the write only applies if the stored lastUpdated is not newer.
type SaveContent struct {
	UserID      string
	JournalID   models.EntryID
	Content     string
	LastUpdated time.Time
	IfNotAfter  bool
}

// UserStore persists user records with their embedded journal.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	AppendJournal(ctx context.Context, userID string, entry models.JournalEntry) (*models.User, error)
	SaveJournalContent(ctx context.Context, req SaveContent) error
	DeleteJournal(ctx context.Context, userID string, journalID models.EntryID) error
}

// UsersCollection is the Mongo collection holding user records.
const UsersCollection = "users"

// MongoUserStore keeps each user, journal included, as one document.
type MongoUserStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{col: db.Collection(UsersCollection), now: time.Now}
}

// EnsureUserIndexes creates the unique email index. Called from main once
// Mongo is connected.
func (s *MongoUserStore) EnsureUserIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("idx_users_email").SetUnique(true),
	})
	return err
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MongoUserStore) CreateUser(ctx context.Context, u *models.User) error {
	u.ID = primitive.NewObjectID().Hex()
	u.Email = NormalizeEmail(u.Email)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now().UTC()
	}
	// $push needs arrays, not nulls.
	if u.Journal == nil {
		u.Journal = []models.JournalEntry{}
	}
	if u.Folders == nil {
		u.Folders = []models.Folder{}
	}

	if _, err := s.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.col.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoUserStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *MongoUserStore) AppendJournal(ctx context.Context, userID string, entry models.JournalEntry) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"Journal": entry}},
		opts,
	).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("append journal: %w", err)
	}
	return &u, nil
}

func (s *MongoUserStore) SaveJournalContent(ctx context.Context, req SaveContent) error {
	stamp := req.LastUpdated
	if stamp.IsZero() {
		stamp = s.now().UTC()
	}
	match := bson.M{"id": req.JournalID}
	if req.IfNotAfter {
		match["lastUpdated"] = bson.M{"$lte": stamp}
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": req.UserID, "Journal": bson.M{"$elemMatch": match}},
		bson.M{"$set": bson.M{
			"Journal.$.content":     req.Content,
			"Journal.$.lastUpdated": stamp,
		}},
	)
	if err != nil {
		return fmt.Errorf("save journal content: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: work out which part was missing.
	u, err := s.FindUserByID(ctx, req.UserID)
	if err != nil {
		return err
	}
	for _, e := range u.Journal {
		if e.ID == req.JournalID {
			return ErrStaleWrite
		}
	}
	return ErrJournalNotFound
}

func (s *MongoUserStore) DeleteJournal(ctx context.Context, userID string, journalID models.EntryID) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"Journal": bson.M{"id": journalID}}},
	)
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrJournalNotFound
	}
	return nil
}
