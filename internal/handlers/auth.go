package handlers

import (
	"errors"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdudgeon1993/chefs-kiss/internal/database"
	"github.com/jdudgeon1993/chefs-kiss/internal/middleware"
	"github.com/jdudgeon1993/chefs-kiss/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Register creates an account and its household
func (h *Handler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Validate email
	if !emailRegex.MatchString(req.Email) {
		return Error(c, fiber.StatusBadRequest, "invalid email format")
	}

	// Validate password
	if len(req.Password) < 8 {
		return Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	if req.HouseholdName == "" {
		req.HouseholdName = "My Kitchen"
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to process password")
	}

	user, err := h.db.CreateUserWithHousehold(c.Context(), req.Email, string(hashedPassword), req.HouseholdName)
	if err != nil {
		if errors.Is(err, database.ErrEmailExists) {
			return Error(c, fiber.StatusConflict, "email already registered")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to create account")
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles user authentication
func (h *Handler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	// Validate input
	if req.Email == "" || req.Password == "" {
		return Error(c, fiber.StatusBadRequest, "email and password are required")
	}

	// Get user by email
	user, err := h.db.GetUserByEmail(c.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return Error(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, fiber.StatusInternalServerError, "authentication failed")
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	// Update last login
	h.db.UpdateUserLastLogin(c.Context(), user.ID)

	resp, err := h.issueTokens(c, user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(resp)
}

// Refresh exchanges a refresh token for a fresh token pair. Refresh tokens
// are single-use and rotated on every renewal.
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.RefreshToken == "" {
		return Error(c, fiber.StatusBadRequest, "refresh_token is required")
	}

	userID, err := h.db.ConsumeRefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, database.ErrRefreshTokenInvalid) {
			return Error(c, fiber.StatusUnauthorized, "invalid or expired refresh token")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to refresh session")
	}

	user, err := h.db.GetUserByID(c.Context(), userID)
	if err != nil {
		return Error(c, fiber.StatusUnauthorized, "invalid or expired refresh token")
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(resp)
}

// Me returns the authenticated user's profile
func (h *Handler) Me(c *fiber.Ctx) error {
	user, err := h.db.GetUserByID(c.Context(), middleware.GetUserID(c))
	if err != nil {
		return Error(c, fiber.StatusNotFound, "user not found")
	}
	return Success(c, user)
}

func (h *Handler) issueTokens(c *fiber.Ctx, user *models.User) (*models.AuthResponse, error) {
	access, err := h.generateToken(user)
	if err != nil {
		return nil, err
	}

	refresh := uuid.New().String()
	expiresAt := time.Now().Add(h.cfg.RefreshJWTExpiry)
	if err := h.db.StoreRefreshToken(c.Context(), user.ID, refresh, expiresAt); err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		HouseholdID:  user.HouseholdID,
		User:         user,
	}, nil
}

func (h *Handler) generateToken(user *models.User) (string, error) {
	claims := middleware.JWTClaims{
		UserID:      user.ID,
		HouseholdID: user.HouseholdID,
		Email:       user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(h.cfg.JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}
