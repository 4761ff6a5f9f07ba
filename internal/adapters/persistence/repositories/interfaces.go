package repositories

import (
	"context"

	"lendease/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// ClientRepository defines borrower-profile repository interface
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByUserID(ctx context.Context, userID uint) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
}

// CompanyRepository defines company-profile repository interface
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByUserID(ctx context.Context, userID uint) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsBySECNumber(ctx context.Context, secNo string) (bool, error)
	ExistsByTIN(ctx context.Context, tin string) (bool, error)
}

// Repositories bundles the identity-store repositories. The provisioning
// service receives a transaction-scoped bundle inside WithinTx.
type Repositories struct {
	Users     UserRepository
	Clients   ClientRepository
	Companies CompanyRepository
}

// TxManager runs a function against a transaction-scoped repository bundle.
// The transaction commits when fn returns nil and rolls back otherwise.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
