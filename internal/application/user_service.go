package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int64) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context) ([]User, error)
}

// UserService orchestrates authorization, validation, persistence and the
// activity log for staff accounts.
type UserService struct {
	users          UserRepository
	audit          auditRecorder
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	now            func() time.Time
	logger         *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, logs LogRepository, hash PasswordHasher, now func() time.Time) *UserService {
	return NewUserServiceWithLogger(users, logs, hash, now, nil)
}

// NewUserServiceWithLogger wires dependencies for the user service with a specified logger.
func NewUserServiceWithLogger(users UserRepository, logs LogRepository, hash PasswordHasher, now func() time.Time, logger *slog.Logger) *UserService {
	if hash == nil {
		hash = HashPassword
	}
	if now == nil {
		now = time.Now
	}
	logger = defaultLogger(logger)
	return &UserService{
		users:          users,
		audit:          auditRecorder{logs: logs, now: now, logger: logger},
		hashPassword:   hash,
		verifyPassword: VerifyPassword,
		now:            now,
		logger:         logger,
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// ListUsers returns every account for administrators.
func (s *UserService) ListUsers(ctx context.Context, principal Principal) ([]User, error) {
	if s == nil {
		return nil, fmt.Errorf("UserService is nil")
	}
	if err := authorize(principal, ActionListUsers); err != nil {
		return nil, err
	}
	if s.users == nil {
		return nil, fmt.Errorf("user repository not configured")
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.loggerWith(ctx, "ListUsers", "principal_id", principal.UserID).
			ErrorContext(ctx, "failed to list users", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// GetUser returns a single account for administrators.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID int64) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if err := authorize(principal, ActionViewUser); err != nil {
		return User{}, err
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return User{}, mapRepoError(err)
	}
	return user, nil
}

// CreateUser adds a ROOM_PREPARER account. Administrators are only created by seeding.
func (s *UserService) CreateUser(ctx context.Context, params CreateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "CreateUser",
		"principal_id", params.Principal.UserID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	if err = authorize(params.Principal, ActionCreateUser); err != nil {
		return
	}

	input := UserInput{
		Email:    normalizeEmail(params.Input.Email),
		Password: params.Input.Password,
		Role:     Role(strings.TrimSpace(string(params.Input.Role))),
	}
	vErr := validateUserInput(input)
	if vErr.HasErrors() {
		err = vErr
		return
	}

	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	if _, lookupErr := s.users.GetUserByEmail(ctx, input.Email); lookupErr == nil {
		err = ErrConflict
		return
	} else if mapped := mapRepoError(lookupErr); !errors.Is(mapped, ErrNotFound) {
		err = mapped
		return
	}

	var hash string
	hash, err = s.hashPassword(input.Password)
	if err != nil {
		err = fmt.Errorf("hash password: %w", err)
		return
	}

	now := s.now()
	user, err = s.users.CreateUser(ctx, User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		err = mapRepoError(err)
		return
	}

	s.audit.record(ctx, params.Principal.UserID, nil, userCreatedActivity(user))
	return
}

// UpdateUser changes email, password or role. Supplying values equal to the
// current ones writes nothing and records no activity.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (user User, err error) {
	if s == nil {
		err = fmt.Errorf("UserService is nil")
		return
	}

	logger := s.loggerWith(ctx, "UpdateUser",
		"principal_id", params.Principal.UserID,
		"user_id", params.UserID,
	)
	changed := false
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("changed", changed).InfoContext(ctx, "user updated")
	}()

	if err = authorize(params.Principal, ActionUpdateUser); err != nil {
		return
	}

	patch := normalizeUserPatch(params.Patch)
	if vErr := validateUserPatch(patch); vErr.HasErrors() {
		err = vErr
		return
	}

	if s.users == nil {
		err = fmt.Errorf("user repository not configured")
		return
	}

	var existing User
	existing, err = s.users.GetUser(ctx, params.UserID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	updated := existing
	var changes changeSet

	if patch.Email != nil {
		updated.Email = *patch.Email
		changes.field("email", existing.Email, updated.Email)
	}
	if patch.Password != nil && s.verifyPassword(existing.PasswordHash, *patch.Password) != nil {
		var hash string
		hash, err = s.hashPassword(*patch.Password)
		if err != nil {
			err = fmt.Errorf("hash password: %w", err)
			return
		}
		updated.PasswordHash = hash
		changes.flag("password", true)
	}
	if patch.Role != nil {
		updated.Role = *patch.Role
		changes.field("role", string(existing.Role), string(updated.Role))
	}

	if changes.empty() {
		user = existing
		return
	}

	if updated.Email != existing.Email {
		other, lookupErr := s.users.GetUserByEmail(ctx, updated.Email)
		if lookupErr == nil && other.ID != existing.ID {
			err = ErrConflict
			return
		}
		if lookupErr != nil {
			if mapped := mapRepoError(lookupErr); !errors.Is(mapped, ErrNotFound) {
				err = mapped
				return
			}
		}
	}

	updated.UpdatedAt = s.now()
	user, err = s.users.UpdateUser(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	changed = true

	s.audit.record(ctx, params.Principal.UserID, nil, userUpdatedActivity(user, changes))
	return
}

// DeleteUser removes an account. Administrators cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, principal Principal, userID int64) (err error) {
	if s == nil {
		return fmt.Errorf("UserService is nil")
	}

	logger := s.loggerWith(ctx, "DeleteUser",
		"principal_id", principal.UserID,
		"user_id", userID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete user", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "user deleted")
	}()

	if err = authorize(principal, ActionDeleteUser); err != nil {
		return
	}
	if s.users == nil {
		return fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return mapRepoError(err)
	}
	if existing.ID == principal.UserID {
		return ErrSelfDeletion
	}

	if err = s.users.DeleteUser(ctx, existing.ID); err != nil {
		return mapRepoError(err)
	}

	s.audit.record(ctx, principal.UserID, nil, userDeletedActivity(existing))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(vErr *ValidationError, email string) {
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is invalid")
	}
}

func validateUserInput(input UserInput) *ValidationError {
	vErr := &ValidationError{}

	validateEmail(vErr, input.Email)
	if input.Password == "" {
		vErr.add("password", "password is required")
	}
	switch {
	case input.Role == "":
		vErr.add("role", "role is required")
	case input.Role != RoleRoomPreparer:
		vErr.add("role", "only ROOM_PREPARER accounts can be created")
	}

	return vErr
}

func normalizeUserPatch(patch UserPatch) UserPatch {
	out := UserPatch{}
	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		out.Email = &email
	}
	if patch.Password != nil && *patch.Password != "" {
		password := *patch.Password
		out.Password = &password
	}
	if patch.Role != nil {
		role := Role(strings.TrimSpace(string(*patch.Role)))
		out.Role = &role
	}
	return out
}

func validateUserPatch(patch UserPatch) *ValidationError {
	vErr := &ValidationError{}

	if patch.Email == nil && patch.Password == nil && patch.Role == nil {
		vErr.add("body", "at least one field must be provided")
		return vErr
	}
	if patch.Email != nil {
		validateEmail(vErr, *patch.Email)
	}
	if patch.Role != nil && !patch.Role.Valid() {
		vErr.add("role", "role is invalid")
	}
	return vErr
}
