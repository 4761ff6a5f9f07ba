package validation

import (
	"context"

	"github.com/go-playground/validator/v10"

	"lendease/internal/adapters/persistence/repositories"
)

// Engine evaluates registration payloads against the business rules and the
// identity store's uniqueness constraints, producing either a normalized
// record-set or an ordered field-error report.
type Engine struct {
	validate  *validator.Validate
	users     repositories.UserRepository
	companies repositories.CompanyRepository
}

// NewEngine creates a validation engine
func NewEngine(users repositories.UserRepository, companies repositories.CompanyRepository) *Engine {
	return &Engine{
		validate:  newValidator(),
		users:     users,
		companies: companies,
	}
}

// checkIdentityUnique reports email/username conflicts as field errors.
// A field that already failed a format rule is not re-checked.
func (e *Engine) checkIdentityUnique(ctx context.Context, email, username string, errs *FieldErrors) error {
	if !errs.Has("email") {
		taken, err := e.users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			errs.add("email", "A user with this email already exists.")
		}
	}
	if !errs.Has("username") {
		taken, err := e.users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			errs.add("username", "A user with this username already exists.")
		}
	}
	return nil
}
