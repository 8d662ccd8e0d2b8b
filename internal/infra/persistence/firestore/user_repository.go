package firestore

import (
	"context"
	"strconv"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// userRepository implements the domain UserRepository interface on
// Firestore. A nil tx means operations run against the client directly;
// a non-nil tx binds every read and write to that transaction.
type userRepository struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (repo *userRepository) users() *firestore.CollectionRef {
	return repo.client.Collection(usersCollection)
}

func (repo *userRepository) getDoc(ctx context.Context, ref *firestore.DocumentRef) (*firestore.DocumentSnapshot, error) {
	if repo.tx != nil {
		return repo.tx.Get(ref)
	}

	return ref.Get(ctx)
}

func (repo *userRepository) runQuery(ctx context.Context, q firestore.Query) *firestore.DocumentIterator {
	if repo.tx != nil {
		return repo.tx.Documents(q)
	}

	return q.Documents(ctx)
}

// FindByID retrieves a single user by their category-prefixed identifier.
func (repo *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	snap, err := repo.getDoc(ctx, repo.users().Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	var m model.UserModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode user document")
	}

	return m.ToUserDomain(snap.Ref.ID), nil
}

// FindByEmail retrieves a single user by email, or nil when no user matches.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.findOne(ctx, repo.users().Query.Where("email", "==", email).Limit(1))
}

// FindByUsername retrieves a single user by username, or nil when no user matches.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.findOne(ctx, repo.users().Query.Where("userName", "==", username).Limit(1))
}

func (repo *userRepository) findOne(ctx context.Context, q firestore.Query) (*entity.User, error) {
	iter := repo.runQuery(ctx, q)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}

	var m model.UserModel
	if err := snap.DataTo(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode user document")
	}

	return m.ToUserDomain(snap.Ref.ID), nil
}

// HighestIDSuffix returns the largest numeric suffix among existing
// identifiers under the given prefix, or 0 when none exist. Document IDs
// sort lexicographically, so the prefix range scan in descending order
// yields the highest identifier first.
func (repo *userRepository) HighestIDSuffix(ctx context.Context, prefix string) (int64, error) {
	users := repo.users()
	q := users.Query.
		Where(firestore.DocumentID, ">=", users.Doc(prefix+"000000")).
		Where(firestore.DocumentID, "<", users.Doc(prefix+"999999~")).
		OrderBy(firestore.DocumentID, firestore.Desc).
		Limit(1)

	iter := repo.runQuery(ctx, q)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "failed to scan identifier namespace")
	}

	suffix, err := strconv.ParseInt(snap.Ref.ID[len(prefix):], 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed identifier %q", snap.Ref.ID)
	}

	return suffix, nil
}

// Create persists a new user entity under its identifier.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	ref := repo.users().Doc(user.ID)
	m := model.FromUserDomain(user)

	var err error
	if repo.tx != nil {
		err = repo.tx.Create(ref, m)
	} else {
		_, err = ref.Create(ctx, m)
	}
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return nil
}

// Update replaces an existing user entity in the storage.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	ref := repo.users().Doc(user.ID)
	m := model.FromUserDomain(user)

	var err error
	if repo.tx != nil {
		err = repo.tx.Set(ref, m)
	} else {
		_, err = ref.Set(ctx, m)
	}
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to update user")
	}

	return nil
}

// Delete removes a user record by identifier. Firestore deletes are
// idempotent, so existence is checked first to surface a missing user
// the same way the other backends do.
func (repo *userRepository) Delete(ctx context.Context, id string) error {
	ref := repo.users().Doc(id)

	if _, err := repo.getDoc(ctx, ref); err != nil {
		if status.Code(err) == codes.NotFound {
			return repository.ErrUserNotFound
		}

		return errors.Wrap(err, "failed to load user for delete")
	}

	var err error
	if repo.tx != nil {
		err = repo.tx.Delete(ref)
	} else {
		_, err = ref.Delete(ctx)
	}
	if err != nil {
		return errors.Wrap(err, "failed to delete user")
	}

	return nil
}
