package handlers

import (
	"errors"
	"strconv"

	"lendease/internal/adapters/http/middleware"
	"lendease/internal/core/domain"
	"lendease/internal/core/services"
	"lendease/internal/core/validation"
	"lendease/internal/pkg/pagination"
	"lendease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account management and profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing users
// @Summary List users
// @Description Admins get a paginated list of every account; everyone else gets exactly their own record
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	req := middleware.Requester(c)

	users, total, err := h.userService.ListUsers(c.Context(), req, params.Offset, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(users, params, total))
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Description Get a specific user; non-admins only see themselves
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	req := middleware.Requester(c)

	user, err := h.userService.GetUser(c.Context(), req, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to view this user")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to get user")
		}
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user,
	})
}

// UpdateUser handles updating an account record
// @Summary Update user
// @Description Update account fields; role, is_active and is_verified are admin-only
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body services.UpdateUserInput true "Update data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var input services.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req := middleware.Requester(c)

	user, err := h.userService.UpdateUser(c.Context(), req, uint(id), &input)
	if err != nil {
		return h.updateError(c, err, "Failed to update user")
	}

	return response.Success(c, "User updated successfully", fiber.Map{
		"user": user,
	})
}

// DeleteUser handles deleting a user (soft delete)
// @Summary Delete user
// @Description Soft-delete an account; admins can delete anyone but themselves
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	req := middleware.Requester(c)

	if err := h.userService.DeleteUser(c.Context(), req, uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You don't have permission to delete this user")
		case errors.Is(err, domain.ErrCannotDeleteSelf):
			return response.BadRequest(c, "Cannot delete your own account")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to delete user")
		}
	}

	return response.Success(c, "User deleted successfully", nil)
}

// GetProfile handles getting own kind-specific profile
// @Summary Get own profile
// @Description Get the borrower or company profile attached to the current account
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	profile, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrProfileMissing):
			return response.NotFound(c, "Profile not found")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to get profile")
		}
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// UpdateProfile handles updating own kind-specific profile. The payload shape
// depends on the account kind carried in the access token.
// @Summary Update own profile
// @Description Update the borrower or company profile attached to the current account
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	req := middleware.Requester(c)
	if req.ID == 0 {
		return response.Unauthorized(c, "Unauthorized")
	}

	switch req.Kind {
	case domain.KindBorrower:
		var input services.ClientProfileUpdateInput
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		client, err := h.userService.UpdateClientProfile(c.Context(), req, req.ID, &input)
		if err != nil {
			return h.updateError(c, err, "Failed to update profile")
		}
		return response.Success(c, "Profile updated successfully", client)

	case domain.KindLendingCompany:
		var input services.CompanyProfileUpdateInput
		if err := c.BodyParser(&input); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
		company, err := h.userService.UpdateCompanyProfile(c.Context(), req, req.ID, &input)
		if err != nil {
			return h.updateError(c, err, "Failed to update profile")
		}
		return response.Success(c, "Profile updated successfully", company)

	default:
		return response.BadRequest(c, "Unknown account kind")
	}
}

// updateError maps update failures onto the response envelope, keeping
// per-field validation reports intact.
func (h *UserHandler) updateError(c *fiber.Ctx, err error, fallback string) error {
	var fieldErrors validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		return response.ValidationFailed(c, fieldErrors)
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrProfileMissing):
		return response.NotFound(c, "Profile not found")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "Service temporarily unavailable")
	default:
		return response.InternalServerError(c, fallback)
	}
}
