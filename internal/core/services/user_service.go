package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"lendease/internal/adapters/persistence/models"
	"lendease/internal/adapters/persistence/repositories"
	"lendease/internal/core/domain"
	"lendease/internal/core/validation"
)

// Requester identifies the user behind an authenticated call, as decoded
// from the access token.
type Requester struct {
	ID   uint
	Kind domain.Kind
	Role domain.Role
}

// canSee is the role-aware visibility rule: admins see every record, anyone
// else sees only their own. Write operations apply the same rule.
func (r Requester) canSee(targetID uint) bool {
	return r.Role == domain.RoleAdmin || r.ID == targetID
}

// UserService handles account listing, reads and updates behind the
// authorization filter, plus profile resolution.
type UserService struct {
	userRepo    repositories.UserRepository
	clientRepo  repositories.ClientRepository
	companyRepo repositories.CompanyRepository
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	clientRepo repositories.ClientRepository,
	companyRepo repositories.CompanyRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		companyRepo: companyRepo,
	}
}

// ListUsers returns the users visible to the requester. Admins get the full
// paginated collection; everyone else gets exactly their own record.
func (s *UserService) ListUsers(ctx context.Context, req Requester, offset, limit int) ([]*models.UserResponse, int64, error) {
	if req.Role != domain.RoleAdmin {
		user, err := s.userRepo.GetByID(ctx, req.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []*models.UserResponse{}, 0, nil
			}
			return nil, 0, err
		}
		return []*models.UserResponse{user.ToResponse()}, 1, nil
	}

	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, total, nil
}

// GetUser returns one user record, subject to the visibility rule.
func (s *UserService) GetUser(ctx context.Context, req Requester, id uint) (*models.UserResponse, error) {
	if !req.canSee(id) {
		return nil, domain.ErrForbidden
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// GetProfile resolves the user's kind-matched profile. A user whose profile
// row is absent is a data inconsistency that provisioning's atomicity should
// make impossible; it is reported explicitly, never as a silent null.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !user.Kind.Valid() {
		log.Printf("anomaly: user %d has unknown kind %q", userID, user.Kind)
		return nil, domain.ErrProfileMissing
	}

	if user.Kind == domain.KindBorrower {
		client, err := s.clientRepo.GetByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("anomaly: user %d (kind=%s) has no client profile", userID, user.Kind)
				return nil, domain.ErrProfileMissing
			}
			return nil, err
		}
		return &models.Profile{Kind: user.Kind, Client: client}, nil
	}

	company, err := s.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("anomaly: user %d (kind=%s) has no company profile", userID, user.Kind)
			return nil, domain.ErrProfileMissing
		}
		return nil, err
	}
	return &models.Profile{Kind: user.Kind, Company: company}, nil
}

// UpdateUserInput represents an account-level update. Role, IsActive and
// IsVerified may only be set by admins.
type UpdateUserInput struct {
	Email      *string `json:"email"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Role       *string `json:"role"`
	IsActive   *bool   `json:"is_active"`
	IsVerified *bool   `json:"is_verified"`
}

// UpdateUser updates an account record, visibility rule plus ownership
// check. Kind is immutable; admins cannot change their own role.
func (s *UserService) UpdateUser(ctx context.Context, req Requester, id uint, input *UpdateUserInput) (*models.UserResponse, error) {
	if !req.canSee(id) {
		return nil, domain.ErrForbidden
	}
	if req.Role != domain.RoleAdmin && (input.Role != nil || input.IsActive != nil || input.IsVerified != nil) {
		return nil, domain.ErrForbidden
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.Email != nil {
		email := validation.NormalizeEmail(*input.Email)
		if email != user.Email {
			exists, err := s.userRepo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, validation.FieldErrors{{Field: "email", Message: "A user with this email already exists."}}
			}
			user.Email = email
		}
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Role != nil {
		if id == req.ID {
			return nil, domain.ErrForbidden
		}
		role := domain.Role(*input.Role)
		switch role {
		case domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee, domain.RoleBorrower:
			user.Role = role
		default:
			return nil, validation.FieldErrors{{Field: "role", Message: "Select a valid choice."}}
		}
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		// A concurrent write can take the email between the uniqueness
		// check and the update; email is the only unique column this
		// operation can change.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, validation.FieldErrors{{Field: "email", Message: "A user with this email already exists."}}
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// DeleteUser soft deletes an account; the profile row cascades with it.
func (s *UserService) DeleteUser(ctx context.Context, req Requester, id uint) error {
	if !req.canSee(id) {
		return domain.ErrForbidden
	}
	if req.Role == domain.RoleAdmin && id == req.ID {
		return domain.ErrCannotDeleteSelf
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
