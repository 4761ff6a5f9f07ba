package handlers

import (
	"errors"
	"time"

	"lendease/internal/config"
	"lendease/internal/core/domain"
	"lendease/internal/core/services"
	"lendease/internal/core/validation"
	"lendease/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	provisioning *services.ProvisioningService
	authService  *services.AuthService
	cfg          *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(provisioning *services.ProvisioningService, authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		provisioning: provisioning,
		authService:  authService,
		cfg:          cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterBorrower handles borrower registration
// @Summary Register new borrower
// @Description Register a borrower account with its personal profile in one step
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body validation.BorrowerPayload true "Borrower registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/register/borrower [post]
func (h *AuthHandler) RegisterBorrower(c *fiber.Ctx) error {
	var payload validation.BorrowerPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.provisioning.RegisterBorrower(c.Context(), &payload)
	if err != nil {
		return h.registrationError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "Borrower registered successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// RegisterCompany handles lending company registration
// @Summary Register new lending company
// @Description Register a lending company account with its company profile in one step
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body validation.CompanyPayload true "Company registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/register/company [post]
func (h *AuthHandler) RegisterCompany(c *fiber.Ctx) error {
	var payload validation.CompanyPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.provisioning.RegisterCompany(c.Context(), &payload)
	if err != nil {
		return h.registrationError(c, err)
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "Lending company registered successfully", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate by email and password and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"access_token": result.AccessToken,
		"user":         result.User,
	})
}

// RefreshToken handles access token refresh
// @Summary Refresh access token
// @Description Mint a new access token from a live refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	accessToken, err := h.authService.Refresh(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token, please login again")
		case errors.Is(err, domain.ErrStoreUnavailable):
			return response.ServiceUnavailable(c, "Service temporarily unavailable")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAccessCookie(c, accessToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"access_token": accessToken,
	})
}

// Logout handles user logout
// @Summary Logout user
// @Description Logout user and revoke the presented refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := h.refreshTokenFrom(c)
	if refreshToken != "" {
		if err := h.authService.Logout(c.Context(), refreshToken); err != nil {
			if errors.Is(err, domain.ErrStoreUnavailable) {
				return response.ServiceUnavailable(c, "Service temporarily unavailable")
			}
			return response.InternalServerError(c, "Failed to logout")
		}
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the current user info
// @Summary Get current user
// @Description Get the currently authenticated user's information
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	user, err := h.authService.GetUserByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", fiber.Map{
		"user": user.ToResponse(),
	})
}

// registrationError maps provisioning failures onto the response envelope.
// Validation reports keep their per-field shape.
func (h *AuthHandler) registrationError(c *fiber.Ctx, err error) error {
	var fieldErrors validation.FieldErrors
	switch {
	case errors.As(err, &fieldErrors):
		return response.ValidationFailed(c, fieldErrors)
	case errors.Is(err, domain.ErrStoreUnavailable):
		return response.ServiceUnavailable(c, "Service temporarily unavailable")
	default:
		return response.InternalServerError(c, "Failed to register")
	}
}

// refreshTokenFrom reads the refresh token from the cookie, falling back to
// the request body for cookie-less API clients.
func (h *AuthHandler) refreshTokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("refresh_token"); token != "" {
		return token
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	h.setAccessCookie(c, accessToken)

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60, // Convert days to seconds
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// setAccessCookie sets the short-lived access token cookie
func (h *AuthHandler) setAccessCookie(c *fiber.Ctx, accessToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60, // Convert minutes to seconds
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
