package handlers

import (
	"errors"
	"log"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
	"earnsure/internal/services/user"
	"earnsure/internal/utils"
	"earnsure/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterUser creates a new account and returns a fresh token pair so the
// client lands signed in.
func (h *UserHandler) RegisterUser(c *fiber.Ctx) error {
	var input struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Phone        string `json:"phone"`
		Password     string `json:"password"`
		DeviceID     string `json:"device_id"`
		ReferralCode string `json:"referral_code"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	v := validation.New()
	v.Registration(input.Name, input.Email, input.Phone, input.Password, input.DeviceID)
	if !v.Valid() {
		return utils.Respond(c, fiber.StatusBadRequest, fiber.Map{"errors": v.Errors})
	}

	newUser, err := h.userService.Register(c.Context(), &user.RegisterInput{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Password:     input.Password,
		DeviceID:     input.DeviceID,
		ReferralCode: input.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, user.ErrDeviceAlreadyBound):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "An account already exists on this device"})
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Email already registered"})
		case errors.Is(err, user.ErrInvalidReferralCode):
			return utils.BadRequest(c, "Referral code not found")
		}
		log.Printf("Registration failed: %v", err)
		return utils.InternalError(c, "Failed to create account")
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       newUser.ID,
		Email:        newUser.Email,
		Role:         newUser.Role,
		TokenVersion: newUser.TokenVersion,
	})
	if err != nil {
		log.Printf("Token generation failed for new user %d: %v", newUser.ID, err)
		return utils.InternalError(c, "Account created but login failed")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          publicUser(newUser),
	})
}

// GetProfile returns the authenticated user's account.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return utils.NotFound(c, "User not found")
	}

	return utils.Success(c, publicUser(u))
}

// GetLeaderboard lists the users with the highest balances.
func (h *UserHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	users, err := h.userService.Leaderboard(c.Context(), limit)
	if err != nil {
		return utils.InternalError(c, "Failed to load leaderboard")
	}

	entries := make([]fiber.Map, 0, len(users))
	for i, u := range users {
		entries = append(entries, fiber.Map{
			"rank":  i + 1,
			"name":  u.Name,
			"coins": u.WalletCoins,
		})
	}

	return utils.Success(c, fiber.Map{"leaderboard": entries})
}

// publicUser strips credentials and internal flags from the user row.
func publicUser(u *models.User) fiber.Map {
	return fiber.Map{
		"id":             u.ID,
		"name":           u.Name,
		"email":          u.Email,
		"phone":          u.Phone,
		"role":           u.Role,
		"wallet_coins":   u.WalletCoins,
		"referral_code":  u.ReferralCode,
		"checkin_streak": u.CheckinStreak,
		"is_mining":      u.IsMining,
		"created_at":     u.CreatedAt,
	}
}
