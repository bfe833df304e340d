package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/universe/internal/app/models"
	"github.com/yigit/universe/internal/pkg/apperrors"
	"github.com/yigit/universe/internal/pkg/helpers"
	"github.com/yigit/universe/internal/pkg/normalize"
	"github.com/yigit/universe/internal/pkg/workbook"
)

// Header aliases of the users worksheet
var (
	UserEmailAliases    = []string{"email", "emailaddress", "mail"}
	UserNameAliases     = []string{"name", "fullname", "displayname"}
	UserPasswordAliases = []string{"passwordhash", "password", "hash"}
	CreatedAliases      = []string{"created", "createdat", "date", "timestamp", "datum"}
)

// UserRepository reads and appends accounts
type UserRepository struct {
	sheetRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(wb workbook.Workbook, sheet string) *UserRepository {
	return &UserRepository{sheetRepository{wb: wb, name: sheet}}
}

// GetAll returns every account with an email, in worksheet order
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	s, err := r.sheet(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(s.Records))
	for _, rec := range s.Records {
		email := s.Value(rec, UserEmailAliases...)
		if email == "" {
			continue
		}
		users = append(users, models.User{
			Email:        email,
			Name:         s.Value(rec, UserNameAliases...),
			PasswordHash: s.Value(rec, UserPasswordAliases...),
			CreatedAt:    helpers.ParseTimestamp(s.Value(rec, CreatedAliases...)),
		})
	}
	return users, nil
}

// GetUserByEmail finds an account, comparing emails case-insensitively
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if normalize.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetUserByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if apperrors.Is(err, apperrors.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

// CreateUser appends an account row
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	s, err := r.sheet(ctx)
	if err != nil {
		return err
	}
	emailCol, err := column(s, "email", UserEmailAliases...)
	if err != nil {
		return err
	}
	nameCol, err := column(s, "name", UserNameAliases...)
	if err != nil {
		return err
	}
	hashCol, err := column(s, "password hash", UserPasswordAliases...)
	if err != nil {
		return err
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	row := map[string]string{
		emailCol: user.Email,
		nameCol:  user.Name,
		hashCol:  user.PasswordHash,
	}
	if createdCol, ok := s.Column(CreatedAliases...); ok {
		row[createdCol] = helpers.Timestamp(user.CreatedAt)
	}

	if err := r.wb.AppendRow(ctx, r.name, row); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}
