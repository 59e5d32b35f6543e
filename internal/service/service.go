package service

import (
	"errors"

	"github.com/ledgerline/ledgerline-backend/internal/config"
	"github.com/ledgerline/ledgerline-backend/internal/db"
	"github.com/ledgerline/ledgerline-backend/internal/email"
	"github.com/ledgerline/ledgerline-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")

	// Invitation-specific failures. The first three are caller errors on
	// stale or malformed input; membership conflicts map to ErrConflict at
	// the HTTP boundary.
	ErrSelfInvite         = errors.New("you cannot invite yourself")
	ErrAlreadyMember      = errors.New("user is already a member of this organization")
	ErrInvitationAccepted = errors.New("invitation has already been accepted")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrEmailMismatch      = errors.New("invitation email does not match the authenticated user")
)

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth         AuthService
	Access       AccessService
	Organization OrganizationService
	Invitation   InvitationService
	Category     CategoryService
	Expense      ExpenseService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config   *config.Config
	Repos    *repository.Repositories
	EmailSvc *email.Service
	Cache    *db.RedisDB
}

func NewServices(deps *ServiceDeps) *Services {
	accessService := NewAccessService(deps.Repos.OrganizationRepo)

	return &Services{
		Auth:         NewAuthService(deps.Config, deps.Repos.UserRepo),
		Access:       accessService,
		Organization: NewOrganizationService(deps.Repos.OrganizationRepo),
		Invitation: NewInvitationService(
			deps.Repos.InvitationRepo,
			deps.Repos.OrganizationRepo,
			deps.Repos.UserRepo,
			accessService,
			deps.EmailSvc,
			deps.Config.FrontendURL,
		),
		Category: NewCategoryService(deps.Repos.CategoryRepo, accessService, deps.Cache),
		Expense:  NewExpenseService(deps.Repos.ExpenseRepo, deps.Repos.CategoryRepo, accessService),
	}
}
