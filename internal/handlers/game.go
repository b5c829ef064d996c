package handlers

import (
	"errors"
	"log"

	"earnsure/internal/services/game"
	"earnsure/internal/services/reward"
	"earnsure/internal/utils"
	"earnsure/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type GameHandler struct {
	gameService game.Service
}

func NewGameHandler(gameService game.Service) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// Spin resolves one free spin-wheel draw.
func (h *GameHandler) Spin(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.Spin(c.Context(), claims.UserID)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// Scratch resolves one scratch-card draw, subject to the daily limit.
func (h *GameHandler) Scratch(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.Scratch(c.Context(), claims.UserID)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// Aviator

func (h *GameHandler) StartAviator(c *fiber.Ctx) error {
	var input struct {
		Bet int64 `json:"bet"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if !validBet(input.Bet) {
		return utils.BadRequest(c, "Invalid bet amount")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.gameService.StartAviator(c.Context(), claims.UserID, input.Bet); err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, fiber.Map{"started": true})
}

func (h *GameHandler) CashOutAviator(c *fiber.Ctx) error {
	var input struct {
		Multiplier float64 `json:"multiplier"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.CashOutAviator(c.Context(), claims.UserID, input.Multiplier)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// Limbo

func (h *GameHandler) PlayLimbo(c *fiber.Ctx) error {
	var input struct {
		Bet    int64   `json:"bet"`
		Target float64 `json:"target"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if !validBet(input.Bet) {
		return utils.BadRequest(c, "Invalid bet amount")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.PlayLimbo(c.Context(), claims.UserID, input.Bet, input.Target)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// Mines

func (h *GameHandler) StartMines(c *fiber.Ctx) error {
	var input struct {
		Bet   int64 `json:"bet"`
		Mines int   `json:"mines"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if !validBet(input.Bet) {
		return utils.BadRequest(c, "Invalid bet amount")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.gameService.StartMines(c.Context(), claims.UserID, input.Bet, input.Mines); err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, fiber.Map{"started": true})
}

func (h *GameHandler) RevealTile(c *fiber.Ctx) error {
	var input struct {
		Position int `json:"position"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.RevealTile(c.Context(), claims.UserID, input.Position)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

func (h *GameHandler) CashOutMines(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.CashOutMines(c.Context(), claims.UserID)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// Chicken Road

func (h *GameHandler) StartChicken(c *fiber.Ctx) error {
	var input struct {
		Bet        int64  `json:"bet"`
		Difficulty string `json:"difficulty"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if !validBet(input.Bet) {
		return utils.BadRequest(c, "Invalid bet amount")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.gameService.StartChicken(c.Context(), claims.UserID, input.Bet, reward.Difficulty(input.Difficulty)); err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, fiber.Map{"started": true})
}

func (h *GameHandler) StepChicken(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.StepChicken(c.Context(), claims.UserID)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

func (h *GameHandler) CashOutChicken(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.gameService.CashOutChicken(c.Context(), claims.UserID)
	if err != nil {
		return h.gameError(c, err)
	}
	return utils.Success(c, result)
}

// gameError maps service errors onto HTTP statuses.
func (h *GameHandler) gameError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, game.ErrInsufficientFunds):
		return utils.BadRequest(c, "Insufficient balance")
	case errors.Is(err, game.ErrScratchLimit):
		return utils.Respond(c, fiber.StatusTooManyRequests, fiber.Map{"error": "Daily scratch limit reached"})
	case errors.Is(err, game.ErrRoundInProgress):
		return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "A round is already in progress"})
	case errors.Is(err, game.ErrNoActiveRound):
		return utils.NotFound(c, "No active round")
	case errors.Is(err, game.ErrRoundOver):
		return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Round is already over"})
	case errors.Is(err, game.ErrTileRevealed):
		return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Tile already revealed"})
	case errors.Is(err, game.ErrInvalidBet),
		errors.Is(err, game.ErrInvalidTarget),
		errors.Is(err, game.ErrInvalidMineCount),
		errors.Is(err, game.ErrInvalidDifficulty),
		errors.Is(err, game.ErrInvalidTile),
		errors.Is(err, game.ErrNothingToCollect):
		return utils.BadRequest(c, err.Error())
	}
	log.Printf("Game operation failed: %v", err)
	return utils.InternalError(c, "Game operation failed")
}

func validBet(bet int64) bool {
	return bet >= validation.MinBetCoins && bet <= validation.MaxBetCoins
}
