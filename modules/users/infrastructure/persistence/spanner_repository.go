package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	platformspanner "github.com/rai/userdirectory/internal/platform/spanner"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// SpannerRepository implements UserRepository using Cloud Spanner.
//
//	CREATE TABLE Users (
//	  UserID      STRING(64) NOT NULL,
//	  Name        STRING(MAX) NOT NULL,
//	  Email       STRING(MAX) NOT NULL,
//	  Phone       STRING(MAX) NOT NULL,
//	  CompanyName STRING(MAX),
//	  CreatedAt   TIMESTAMP NOT NULL,
//	  UpdatedAt   TIMESTAMP NOT NULL,
//	) PRIMARY KEY (UserID)
//
// IDs are stored as text; decimal IDs read back as numeric.
type SpannerRepository struct {
	client *spanner.Client
}

// NewSpannerRepository creates a new Spanner-backed user repository.
func NewSpannerRepository(client *spanner.Client) *SpannerRepository {
	return &SpannerRepository{client: client}
}

// Compile-time interface check.
var _ domain.UserRepository = (*SpannerRepository)(nil)

var userColumns = []string{"UserID", "Name", "Email", "Phone", "CompanyName", "CreatedAt", "UpdatedAt"}

func (r *SpannerRepository) Save(ctx context.Context, user *domain.User) error {
	var m *spanner.Mutation
	if user.IsDeleted() {
		m = spanner.Delete("Users", spanner.Key{user.ID().String()})
	} else {
		profile := user.Profile()
		company := spanner.NullString{}
		if name, ok := profile.Company(); ok {
			company = spanner.NullString{StringVal: name, Valid: true}
		}
		m = spanner.InsertOrUpdate("Users", userColumns, []interface{}{
			user.ID().String(),
			profile.Name(),
			profile.Email(),
			profile.Phone(),
			company,
			user.CreatedAt(),
			user.UpdatedAt(),
		})
	}

	// Use existing transaction if available
	if txn, ok := platformspanner.ReadWriteTxFromContext(ctx); ok {
		return txn.BufferWrite([]*spanner.Mutation{m})
	}

	if _, err := r.client.Apply(ctx, []*spanner.Mutation{m}); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *SpannerRepository) FindByID(ctx context.Context, id types.UserID) (*domain.User, error) {
	rtx, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		rtx = r.client.Single()
	}

	row, err := rtx.ReadRow(ctx, "Users", spanner.Key{id.String()}, userColumns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to read user: %w", err)
	}

	return scanUser(row)
}

func (r *SpannerRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	rtx, ok := platformspanner.ReadTransactionFromContext(ctx)
	if !ok {
		rtx = r.client.Single()
	}

	stmt := spanner.Statement{
		SQL: `SELECT UserID, Name, Email, Phone, CompanyName, CreatedAt, UpdatedAt
		      FROM Users
		      ORDER BY CreatedAt, UserID`,
	}

	iter := rtx.Query(ctx, stmt)
	defer iter.Stop()

	users := []*domain.User{}
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query users: %w", err)
		}

		user, err := scanUser(row)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

func scanUser(row *spanner.Row) (*domain.User, error) {
	var userID, name, email, phone string
	var company spanner.NullString
	var createdAt, updatedAt time.Time

	if err := row.Columns(&userID, &name, &email, &phone, &company, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	id, err := types.ParseUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}

	record := types.UserRecord{Name: name, Email: email, Phone: phone}
	if company.Valid {
		record.Company = types.NewCompany(company.StringVal)
	}

	return domain.Reconstitute(id, domain.RestoreProfile(record), createdAt, updatedAt), nil
}
