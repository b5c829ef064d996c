package handlers

import (
	"errors"
	"log"
	"strconv"

	"earnsure/internal/repositories"
	"earnsure/internal/services/earning"
	"earnsure/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type EarningHandler struct {
	earningService earning.Service
}

func NewEarningHandler(earningService earning.Service) *EarningHandler {
	return &EarningHandler{
		earningService: earningService,
	}
}

// CheckIn claims the daily streak reward.
func (h *EarningHandler) CheckIn(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	amount, streak, err := h.earningService.CheckIn(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, earning.ErrCheckinNotReady) {
			return utils.Respond(c, fiber.StatusTooManyRequests, fiber.Map{"error": "Already checked in today"})
		}
		log.Printf("Check-in failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Check-in failed")
	}

	return utils.Success(c, fiber.Map{
		"reward": amount,
		"streak": streak,
	})
}

// StartMining opens a mining session.
func (h *EarningHandler) StartMining(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	if err := h.earningService.StartMining(c.Context(), claims.UserID); err != nil {
		if errors.Is(err, earning.ErrAlreadyMining) {
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Mining session already running"})
		}
		return utils.InternalError(c, "Failed to start mining")
	}

	return utils.Success(c, fiber.Map{"mining": true})
}

// CollectMining settles the running session. The claimed amount is clamped
// server-side to the accrual ceiling.
func (h *EarningHandler) CollectMining(c *fiber.Ctx) error {
	var input struct {
		Coins int64 `json:"coins"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	result, err := h.earningService.CollectMining(c.Context(), claims.UserID, input.Coins)
	if err != nil {
		switch {
		case errors.Is(err, earning.ErrNotMining):
			return utils.BadRequest(c, "No mining session running")
		case errors.Is(err, earning.ErrNothingMined):
			return utils.BadRequest(c, "Nothing accrued yet")
		}
		log.Printf("Mining collect failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to collect mining reward")
	}

	return utils.Success(c, result)
}

// ClaimAdReward credits the flat reward for a completed rewarded ad.
func (h *EarningHandler) ClaimAdReward(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	amount, err := h.earningService.WatchAd(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to credit ad reward")
	}

	return utils.Success(c, fiber.Map{"reward": amount})
}

// Tasks

// ListTasks returns the active tasks users can complete.
func (h *EarningHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.earningService.ListTasks(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to load tasks")
	}
	return utils.Success(c, fiber.Map{"tasks": tasks})
}

// SubmitProof records a completion claim for a task.
func (h *EarningHandler) SubmitProof(c *fiber.Ctx) error {
	var input struct {
		ProofURL string `json:"proof_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "Invalid claims")
	}

	proof, err := h.earningService.SubmitProof(c.Context(), claims.UserID, uint(taskID), input.ProofURL)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTaskNotFound):
			return utils.NotFound(c, "Task not found")
		case errors.Is(err, earning.ErrTaskInactive):
			return utils.BadRequest(c, "Task is no longer active")
		}
		log.Printf("Proof submission failed for user %d: %v", claims.UserID, err)
		return utils.InternalError(c, "Failed to submit proof")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"proof": proof})
}
