package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/repositories"
	"lendease/internal/core/validation"
	"lendease/internal/pkg/password"
)

// ProvisioningService orchestrates atomic creation of a User plus exactly
// one kind-matched profile. The two rows are written in a single
// transaction: a failed profile write rolls the user back, so no User ever
// exists without its profile.
type ProvisioningService struct {
	engine *validation.Engine
	tx     repositories.TxManager
	auth   *AuthService
}

// NewProvisioningService creates a new provisioning service
func NewProvisioningService(engine *validation.Engine, tx repositories.TxManager, auth *AuthService) *ProvisioningService {
	return &ProvisioningService{
		engine: engine,
		tx:     tx,
		auth:   auth,
	}
}

// RegisterBorrower validates a borrower payload, writes the User and Client
// rows atomically and mints the initial credential pair.
func (s *ProvisioningService) RegisterBorrower(ctx context.Context, p *validation.BorrowerPayload) (*AuthResponse, error) {
	rec, err := s.engine.ValidateBorrower(ctx, p)
	if err != nil {
		return nil, err
	}

	hashed, err := password.Hash(p.Password)
	if err != nil {
		return nil, err
	}
	rec.User.Password = hashed

	err = s.tx.WithinTx(ctx, func(r repositories.Repositories) error {
		if err := r.Users.Create(ctx, rec.User); err != nil {
			return err
		}
		rec.Client.UserID = rec.User.ID
		return r.Clients.Create(ctx, rec.Client)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race between validation and write; re-validate to
			// attribute the conflict to its field.
			return nil, s.borrowerConflict(ctx, p)
		}
		return nil, err
	}

	tokens, err := s.auth.Issue(rec.User)
	if err != nil {
		return nil, err
	}

	log.Printf("borrower registered: %s (id=%d)", rec.User.Username, rec.User.ID)

	return &AuthResponse{
		User:         rec.User.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RegisterCompany validates a lending-company payload, writes the User and
// Company rows atomically and mints the initial credential pair.
func (s *ProvisioningService) RegisterCompany(ctx context.Context, p *validation.CompanyPayload) (*AuthResponse, error) {
	rec, err := s.engine.ValidateCompany(ctx, p)
	if err != nil {
		return nil, err
	}

	hashed, err := password.Hash(p.Password)
	if err != nil {
		return nil, err
	}
	rec.User.Password = hashed

	err = s.tx.WithinTx(ctx, func(r repositories.Repositories) error {
		if err := r.Users.Create(ctx, rec.User); err != nil {
			return err
		}
		rec.Company.UserID = rec.User.ID
		return r.Companies.Create(ctx, rec.Company)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.companyConflict(ctx, p)
		}
		return nil, err
	}

	tokens, err := s.auth.Issue(rec.User)
	if err != nil {
		return nil, err
	}

	log.Printf("lending company registered: %s (id=%d)", rec.Company.CompanyName, rec.User.ID)

	return &AuthResponse{
		User:         rec.User.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// borrowerConflict re-runs validation after a duplicate-key rollback so the
// conflict surfaces on the field that lost the race, in the same shape as
// any other validation failure.
func (s *ProvisioningService) borrowerConflict(ctx context.Context, p *validation.BorrowerPayload) error {
	if _, err := s.engine.ValidateBorrower(ctx, p); err != nil {
		return err
	}
	// The winning row vanished between rollback and re-validation; report
	// the conflict without a field rather than succeed spuriously.
	return validation.FieldErrors{{Field: validation.NonFieldErrors, Message: "A conflicting registration was just completed. Please retry."}}
}

func (s *ProvisioningService) companyConflict(ctx context.Context, p *validation.CompanyPayload) error {
	if _, err := s.engine.ValidateCompany(ctx, p); err != nil {
		return err
	}
	return validation.FieldErrors{{Field: validation.NonFieldErrors, Message: "A conflicting registration was just completed. Please retry."}}
}
