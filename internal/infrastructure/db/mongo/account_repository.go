package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

const collectionAccounts = "accounts"

// AccountRepository implements ports.AccountRepository with optimistic
// concurrency: every write is conditioned on the version that was read.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDocument struct {
	ID                  string     `bson:"_id"`
	Email               string     `bson:"email"`
	FullName            string     `bson:"full_name"`
	PasswordHash        string     `bson:"password_hash"`
	Role                string     `bson:"role"`
	IsActive            bool       `bson:"is_active"`
	IsLocked            bool       `bson:"is_locked"`
	FailedLoginAttempts int        `bson:"failed_login_attempts"`
	LockoutEnd          *time.Time `bson:"lockout_end"`
	CreatedAt           time.Time  `bson:"created_at"`
	Version             int64      `bson:"version"`
}

func toDocument(a *domain.Account) accountDocument {
	s := a.Snapshot()
	return accountDocument{
		ID:                  s.ID.String(),
		Email:               s.Email,
		FullName:            s.FullName,
		PasswordHash:        s.PasswordHash,
		Role:                string(s.Role),
		IsActive:            s.IsActive,
		IsLocked:            s.IsLocked,
		FailedLoginAttempts: s.FailedLoginAttempts,
		LockoutEnd:          s.LockoutEnd,
		CreatedAt:           s.CreatedAt,
		Version:             s.Version,
	}
}

func (d accountDocument) toDomain() (*domain.Account, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode account %q: %w", d.ID, err)
	}
	return domain.RestoreAccount(domain.AccountSnapshot{
		ID:                  id,
		Email:               d.Email,
		FullName:            d.FullName,
		PasswordHash:        d.PasswordHash,
		Role:                domain.Role(d.Role),
		IsActive:            d.IsActive,
		IsLocked:            d.IsLocked,
		FailedLoginAttempts: d.FailedLoginAttempts,
		LockoutEnd:          d.LockoutEnd,
		CreatedAt:           d.CreatedAt.UTC(),
		Version:             d.Version,
	}), nil
}

// Create inserts a new account document.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toDocument(a)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id.String()})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain()
}

// Update replaces the mutable fields when the stored version matches and
// bumps the version in the same operation.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDocument(a)
	filter := bson.M{"_id": doc.ID, "version": doc.Version}
	update := bson.M{
		"$set": bson.M{
			"is_active":             doc.IsActive,
			"is_locked":             doc.IsLocked,
			"failed_login_attempts": doc.FailedLoginAttempts,
			"lockout_end":           doc.LockoutEnd,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": doc.ID})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return domain.ErrVersionConflict
}

// List returns accounts matching filter, oldest first.
func (r *AccountRepository) List(ctx context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Active != nil {
		filter["is_active"] = *f.Active
	}
	if f.Locked != nil {
		filter["is_locked"] = *f.Locked
	}

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []accountDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]*domain.Account, 0, len(docs))
	for _, d := range docs {
		a, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// EnsureIndexes creates the unique email index and the state indexes used by
// the admin listings.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_locked", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
