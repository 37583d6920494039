package handlers

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/middleware"
	"github.com/ZicoForREAL/fullstackAPP/internal/models"
	"github.com/ZicoForREAL/fullstackAPP/internal/services"
	"github.com/ZicoForREAL/fullstackAPP/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type accountService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
}

type AuthHandler struct {
	accounts  accountService
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthHandler(accounts *services.AccountService, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := h.accounts.Register(c.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		var validation services.ValidationErrors
		switch {
		case errors.As(err, &validation):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  validation,
			})
		case errors.Is(err, services.ErrEmailTaken):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "Email already exists"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to create user"})
		}
	}

	return h.respondWithToken(c, fiber.StatusCreated, "User registered successfully", user)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	user, err := h.accounts.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid email or password"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to lookup user"})
	}

	return h.respondWithToken(c, fiber.StatusOK, "Login successful", user)
}

func (h *AuthHandler) User(c *fiber.Ctx) error {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
	}

	user, err := h.accounts.GetUser(c.Context(), principal.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to lookup user"})
	}
	return c.JSON(user)
}

// Logout acknowledges the caller. Tokens are stateless and stay valid until
// they expire, so clients must discard theirs.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if _, ok := middleware.PrincipalFrom(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthenticated."})
	}
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// RoleCheck answers {key: bool} for whether the caller has role.
func (h *AuthHandler) RoleCheck(role models.Role, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := middleware.PrincipalFrom(c)
		return c.JSON(fiber.Map{key: principal.Is(role)})
	}
}

func (h *AuthHandler) respondWithToken(c *fiber.Ctx, status int, message string, user *models.User) error {
	token, err := utils.GenerateTokenWithTTL(strconv.FormatInt(user.ID, 10), string(user.Role), h.jwtSecret, h.tokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Failed to generate token"})
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"token":   token,
		"user":    user,
	})
}
