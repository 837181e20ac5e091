package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/store"
	"fintrack/internal/validator"
)

const minPasswordLength = 8

// userService handles user-related business logic.
type userService struct {
	tx    store.Transactor
	users store.UserStore
}

// NewUserService creates a new UserServicer.
func NewUserService(tx store.Transactor) UserServicer {
	return &userService{tx: tx, users: tx.Stores().Users}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.create(ctx, in, false)
}

// CreateUser creates a user on behalf of an administrator, who may grant the admin flag.
func (s *userService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	return s.create(ctx, in.RegisterInput, in.IsAdmin)
}

func (s *userService) create(ctx context.Context, in RegisterInput, isAdmin bool) (*models.User, error) {
	login := strings.ToLower(strings.TrimSpace(in.Login))
	if login == "" || in.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "login and password are required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
	}
	if err := validatePersonal(optional(in.FirstName), optional(in.LastName), in.DateOfBirth, in.Passport); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByLogin(ctx, login); err == nil {
		return nil, apperrors.ErrDuplicateLogin
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Login:       login,
		Password:    hashed,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DateOfBirth: in.DateOfBirth,
		Passport:    in.Passport,
		IsAdmin:     isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "login or passport is already registered")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// Authenticate returns the user when login and password match.
// Unknown logins and wrong passwords are indistinguishable to the caller.
func (s *userService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.users.GetByLogin(ctx, strings.ToLower(strings.TrimSpace(login)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// UpdateProfile changes the caller's own profile fields.
func (s *userService) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*models.User, error) {
	fields, err := profileFields(upd)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, id, fields)
}

// UpdateUser changes any user's profile fields and admin flag.
func (s *userService) UpdateUser(ctx context.Context, id string, upd AdminUserUpdate) (*models.User, error) {
	fields, err := profileFields(upd.ProfileUpdate)
	if err != nil {
		return nil, err
	}
	fields.IsAdmin = upd.IsAdmin
	return s.update(ctx, id, fields)
}

func (s *userService) update(ctx context.Context, id string, fields store.UserUpdate) (*models.User, error) {
	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, apperrors.ErrUserNotFound
		case errors.Is(err, store.ErrConflict):
			return nil, apperrors.WithMessage(apperrors.ErrConflict, "passport is already registered")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return user, nil
}

// DeleteUser removes a user together with their wallets, budgets, goals and
// private categories. Users whose wallets appear in the ledger are kept.
func (s *userService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if actor.UserID == id {
		return apperrors.WithMessage(apperrors.ErrForbidden, "administrators cannot delete their own account")
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context, st store.Stores) error {
		if _, err := st.Users.GetByID(ctx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		n, err := st.Transactions.CountByUser(ctx, id)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if n > 0 {
			return apperrors.ErrUserHasHistory
		}

		for _, del := range []func(context.Context, string) error{
			st.Budgets.DeleteByUser,
			st.Goals.DeleteByUser,
			st.Wallets.DeleteByUser,
			st.Categories.ReleaseByUser,
			st.Users.Delete,
		} {
			if err := del(ctx, id); err != nil {
				// A ledger record written after the count still references a wallet.
				if errors.Is(err, store.ErrConflict) {
					return apperrors.ErrUserHasHistory
				}
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	return asAppError(err)
}

// ListUsers returns every user. Callers must restrict it to admins.
func (s *userService) ListUsers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	users, total, err := s.users.GetAll(ctx, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return pagination.NewPageResponse(users, page, total), nil
}

func profileFields(upd ProfileUpdate) (store.UserUpdate, error) {
	if err := validatePersonal(upd.FirstName, upd.LastName, upd.DateOfBirth, upd.Passport); err != nil {
		return store.UserUpdate{}, err
	}
	fields := store.UserUpdate{
		FirstName:   upd.FirstName,
		LastName:    upd.LastName,
		DateOfBirth: upd.DateOfBirth,
		Passport:    upd.Passport,
	}
	if upd.Password != nil {
		if len(*upd.Password) < minPasswordLength {
			return store.UserUpdate{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be at least 8 characters")
		}
		hashed, err := hashPassword(*upd.Password)
		if err != nil {
			return store.UserUpdate{}, err
		}
		fields.Password = &hashed
	}
	return fields, nil
}

// validatePersonal checks the optional personal data of a user. Empty names are allowed.
func validatePersonal(firstName, lastName *string, dob *time.Time, passport *string) error {
	for _, name := range []*string{firstName, lastName} {
		if name != nil && *name != "" && !validator.IsLetters(*name) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "first and last name must contain letters only")
		}
	}
	if dob != nil && !validator.IsAdult(*dob, time.Now()) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date_of_birth must not be in the future and the user must be at least 18")
	}
	if passport != nil && !validator.IsPassport(*passport) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, `passport must have the "XXXX XXXXXX" format with digits only`)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return string(hashed), nil
}
