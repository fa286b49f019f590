// Package identity verifies sign-in credentials and serves user profiles.
// StaticProvider stands in for a real identity backend.
package identity

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"travel-tracker/internal/domain"
	"travel-tracker/internal/errors"
)

// Messages shown when a sign-in step fails.
const (
	InvalidUserCredentialsMessage  = "Invalid username or password"
	InvalidAdminCredentialsMessage = "Invalid admin credentials"
	InvalidSecondFactorMessage     = "Invalid verification code. Please try again."
	UnknownQuickAccountMessage     = "No saved account with that email"
)

// Account is the identity a successful credential check resolves to.
type Account struct {
	Login       string
	DisplayName string
	Email       string
	Role        domain.Role
	// SecondFactor reports whether sign-in must be completed with a code.
	SecondFactor bool
}

// QuickAccount is a saved account that signs in with one choice and no
// password.
type QuickAccount struct {
	Email string
	Name  string
}

// Provider is the identity and user-data backend.
type Provider interface {
	VerifyCredentials(ctx context.Context, role domain.Role, login, password string) (Account, error)
	QuickAccounts() []QuickAccount
	LookupQuickAccount(ctx context.Context, email string) (Account, error)
	VerifySecondFactor(ctx context.Context, login, code string) error
	FetchUser(ctx context.Context, id string) (domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type credential struct {
	account      Account
	passwordHash []byte
	codeHash     []byte
}

// StaticProvider serves a fixed set of accounts and users from memory.
type StaticProvider struct {
	credentials map[domain.Role]map[string]credential
	quick       []QuickAccount
	users       map[string]domain.User
}

// NewStaticProvider builds the built-in accounts with bcrypt.DefaultCost.
func NewStaticProvider() (*StaticProvider, error) {
	return NewStaticProviderWithCost(bcrypt.DefaultCost)
}

// NewStaticProviderWithCost is NewStaticProvider with a chosen bcrypt cost.
func NewStaticProviderWithCost(cost int) (*StaticProvider, error) {
	p := &StaticProvider{
		credentials: map[domain.Role]map[string]credential{
			domain.RoleUser:  {},
			domain.RoleAdmin: {},
		},
		quick: []QuickAccount{
			{Email: "kerala.tourism@gmail.com", Name: "Kerala Tourism"},
			{Email: "user@kerala.com", Name: "Kerala User"},
			{Email: "demo@example.com", Name: "Demo Account"},
		},
		users: make(map[string]domain.User),
	}

	if err := p.addAccount(Account{Login: "kerala", DisplayName: "Kerala User", Role: domain.RoleUser}, "User@123", "", cost); err != nil {
		return nil, err
	}
	if err := p.addAccount(Account{Login: "admin1", DisplayName: "Administrator", Role: domain.RoleAdmin, SecondFactor: true}, "admin1@123", "123456", cost); err != nil {
		return nil, err
	}

	for _, u := range sampleUsers() {
		p.users[u.ID] = u
	}
	return p, nil
}

func (p *StaticProvider) addAccount(acct Account, password, code string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeAuthentication, "failed to hash password")
	}

	cred := credential{account: acct, passwordHash: hash}
	if code != "" {
		cred.codeHash, err = bcrypt.GenerateFromPassword([]byte(code), cost)
		if err != nil {
			return errors.WrapError(err, errors.ErrorTypeAuthentication, "failed to hash verification code")
		}
	}

	p.credentials[acct.Role][acct.Login] = cred
	return nil
}

func invalidCredentials(role domain.Role) error {
	if role == domain.RoleAdmin {
		return errors.NewAuthenticationError(InvalidAdminCredentialsMessage)
	}
	return errors.NewAuthenticationError(InvalidUserCredentialsMessage)
}

// VerifyCredentials checks login and password for the given role.
func (p *StaticProvider) VerifyCredentials(ctx context.Context, role domain.Role, login, password string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, errors.NewTimeoutError("verify credentials", err.Error())
	}

	cred, ok := p.credentials[role][login]
	if !ok {
		return Account{}, invalidCredentials(role)
	}
	if err := bcrypt.CompareHashAndPassword(cred.passwordHash, []byte(password)); err != nil {
		return Account{}, invalidCredentials(role)
	}
	return cred.account, nil
}

// VerifySecondFactor checks the verification code of an admin login.
func (p *StaticProvider) VerifySecondFactor(ctx context.Context, login, code string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewTimeoutError("verify code", err.Error())
	}

	cred, ok := p.credentials[domain.RoleAdmin][login]
	if !ok || cred.codeHash == nil {
		return errors.NewAuthenticationError(InvalidSecondFactorMessage)
	}
	if err := bcrypt.CompareHashAndPassword(cred.codeHash, []byte(code)); err != nil {
		return errors.NewAuthenticationError(InvalidSecondFactorMessage)
	}
	return nil
}

// QuickAccounts lists the saved accounts in display order.
func (p *StaticProvider) QuickAccounts() []QuickAccount {
	return append([]QuickAccount(nil), p.quick...)
}

// LookupQuickAccount resolves a saved account by email, ignoring case.
func (p *StaticProvider) LookupQuickAccount(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, errors.NewTimeoutError("look up account", err.Error())
	}

	email = strings.TrimSpace(email)
	for _, q := range p.quick {
		if strings.EqualFold(q.Email, email) {
			return Account{Login: q.Email, DisplayName: q.Name, Email: q.Email, Role: domain.RoleUser}, nil
		}
	}
	return Account{}, errors.NewAuthenticationError(UnknownQuickAccountMessage)
}

// FetchUser returns one user by id.
func (p *StaticProvider) FetchUser(ctx context.Context, id string) (domain.User, error) {
	u, ok := p.users[id]
	if !ok {
		return domain.User{}, errors.NewNotFoundError("user", id)
	}
	return cloneUser(u), nil
}

// ListUsers returns all users ordered by id.
func (p *StaticProvider) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(p.users))
	for _, u := range p.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func cloneUser(u domain.User) domain.User {
	u.Trips = append([]domain.UserTrip(nil), u.Trips...)
	return u
}

func sampleUsers() []domain.User {
	return []domain.User{
		{
			ID:    "1",
			Name:  "Rajesh Kumar",
			Email: "rajesh@example.com",
			Trips: []domain.UserTrip{
				{ID: "t1", Date: "2024-01-15", Time: "09:30 AM", Origin: "Kochi", Destination: "Munnar", Distance: "130 km", Mode: "Car", Purpose: "Tourism"},
				{ID: "t2", Date: "2024-01-10", Time: "02:00 PM", Origin: "Trivandrum", Destination: "Kovalam", Distance: "16 km", Mode: "Bike", Purpose: "Business"},
			},
		},
		{
			ID:    "2",
			Name:  "Priya Menon",
			Email: "priya@example.com",
			Trips: []domain.UserTrip{
				{ID: "t3", Date: "2024-01-18", Time: "11:00 AM", Origin: "Alappuzha", Destination: "Fort Kochi", Distance: "53 km", Mode: "Car", Purpose: "Personal"},
			},
		},
	}
}
