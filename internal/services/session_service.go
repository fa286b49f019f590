package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
	"travel-tracker/internal/identity"
	"travel-tracker/internal/logging"
	"travel-tracker/internal/repository/sqlite"
	"travel-tracker/internal/validation"
)

// NotSignedInMessage is shown when an operation needs a session and none exists
const NotSignedInMessage = "Please sign in first"

// sessionServiceImpl implements the SessionService interface
type sessionServiceImpl struct {
	repo     sqlite.Repository
	provider identity.Provider
	newID    func() string
}

// NewSessionService creates a new session service instance
func NewSessionService(repo sqlite.Repository, provider identity.Provider) SessionService {
	return &sessionServiceImpl{
		repo:     repo,
		provider: provider,
		newID:    func() string { return uuid.New().String() },
	}
}

// Login signs in a regular user
func (s *sessionServiceImpl) Login(ctx context.Context, login, password string) (*domain.AuthContext, error) {
	acct, err := s.provider.VerifyCredentials(ctx, domain.RoleUser, strings.TrimSpace(login), password)
	if err != nil {
		return nil, err
	}
	return s.begin(ctx, domain.RoleUser, acct.DisplayName, acct.Email)
}

// LoginAs signs in with one of the provider's saved accounts
func (s *sessionServiceImpl) LoginAs(ctx context.Context, email string) (*domain.AuthContext, error) {
	acct, err := s.provider.LookupQuickAccount(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.begin(ctx, domain.RoleUser, acct.DisplayName, acct.Email)
}

// QuickAccounts lists the saved accounts LoginAs accepts
func (s *sessionServiceImpl) QuickAccounts() []identity.QuickAccount {
	return s.provider.QuickAccounts()
}

// AdminLogin signs in an admin. Accounts with a second factor must supply a
// matching code.
func (s *sessionServiceImpl) AdminLogin(ctx context.Context, login, password, code string) (*domain.AuthContext, error) {
	login = strings.TrimSpace(login)
	acct, err := s.provider.VerifyCredentials(ctx, domain.RoleAdmin, login, password)
	if err != nil {
		return nil, err
	}
	if acct.SecondFactor {
		if err := s.provider.VerifySecondFactor(ctx, login, strings.TrimSpace(code)); err != nil {
			return nil, err
		}
	}
	return s.begin(ctx, domain.RoleAdmin, acct.DisplayName, acct.Email)
}

// SignUp starts a user session for a new account. Only presence of the name
// and email is checked.
func (s *sessionServiceImpl) SignUp(ctx context.Context, name, email string) (*domain.AuthContext, error) {
	v := validation.NewValidator()
	verr := &validation.ValidationError{}

	name = v.TrimAndValidateString(name)
	if !v.IsNonEmptyString(name) {
		verr.AddRequiredError("name")
	}
	email = v.TrimAndValidateString(email)
	if !v.IsNonEmptyString(email) {
		verr.AddRequiredError("email")
	}
	if verr.HasErrors() {
		return nil, errors.NewValidationError(verr.GetUserFriendlyMessage(), verr)
	}

	return s.begin(ctx, domain.RoleUser, name, email)
}

func (s *sessionServiceImpl) begin(ctx context.Context, role domain.Role, name, email string) (*domain.AuthContext, error) {
	auth := &domain.AuthContext{
		SessionID: s.newID(),
		Role:      role,
		Username:  name,
		Email:     email,
	}

	// Replace whatever session was there before.
	if err := s.repo.ClearScope(ctx, sqlite.ScopeSession); err != nil {
		return nil, err
	}
	values := []struct{ key, value string }{
		{SessionKeyAuthType, string(auth.Role)},
		{SessionKeyUsername, auth.Username},
		{SessionKeyUserEmail, auth.Email},
		{SessionKeySessionID, auth.SessionID},
	}
	for _, kv := range values {
		if err := s.repo.SetItem(ctx, sqlite.ScopeSession, kv.key, kv.value); err != nil {
			return nil, err
		}
	}

	logging.Debugf("session %s started for %s (%s)\n", auth.SessionID, auth.Username, auth.Role)
	return auth, nil
}

// Current returns the signed-in session, or nil when there is none
func (s *sessionServiceImpl) Current(ctx context.Context) (*domain.AuthContext, error) {
	authType, err := s.value(ctx, SessionKeyAuthType)
	if err != nil || authType == "" {
		return nil, err
	}
	role, ok := domain.ParseRole(authType)
	if !ok {
		logging.Warnf("ignoring session with unknown auth type %q", authType)
		return nil, nil
	}

	auth := &domain.AuthContext{Role: role}
	if auth.Username, err = s.value(ctx, SessionKeyUsername); err != nil {
		return nil, err
	}
	if auth.Email, err = s.value(ctx, SessionKeyUserEmail); err != nil {
		return nil, err
	}
	if auth.SessionID, err = s.value(ctx, SessionKeySessionID); err != nil {
		return nil, err
	}
	if !auth.IsAuthenticated() {
		return nil, nil
	}
	return auth, nil
}

// value reads one session key, treating a missing key as empty
func (s *sessionServiceImpl) value(ctx context.Context, key string) (string, error) {
	item, err := s.repo.GetItem(ctx, sqlite.ScopeSession, key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return "", nil
		}
		return "", err
	}
	return item.Value, nil
}

// Logout clears the session scope
func (s *sessionServiceImpl) Logout(ctx context.Context) error {
	return s.repo.ClearScope(ctx, sqlite.ScopeSession)
}

// Require returns the current session if it may act in the given role. An
// admin session satisfies RoleUser.
func (s *sessionServiceImpl) Require(ctx context.Context, role domain.Role) (*domain.AuthContext, error) {
	auth, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	if auth == nil {
		return nil, errors.NewAuthenticationError(NotSignedInMessage)
	}
	if role == domain.RoleAdmin && !auth.IsAdmin() {
		return nil, errors.NewPermissionError("open admin view", string(auth.Role))
	}
	return auth, nil
}
