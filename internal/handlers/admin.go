package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"earnsure/internal/models"
	"earnsure/internal/repositories"
	"earnsure/internal/services/earning"
	"earnsure/internal/services/ledger"
	"earnsure/internal/services/user"
	"earnsure/internal/services/withdrawal"
	"earnsure/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	userService       user.Service
	withdrawalService withdrawal.Service
	earningService    earning.Service
	ledgerService     ledger.Service
}

func NewAdminHandler(
	userService user.Service,
	withdrawalService withdrawal.Service,
	earningService earning.Service,
	ledgerService ledger.Service,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		withdrawalService: withdrawalService,
		earningService:    earningService,
		ledgerService:     ledgerService,
	}
}

// Withdrawals

// ListPendingWithdrawals returns the payout queue.
func (h *AdminHandler) ListPendingWithdrawals(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)

	reqs, err := h.withdrawalService.ListPending(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load withdrawal queue")
	}

	return utils.Success(c, fiber.Map{
		"withdrawals": reqs,
		"page":        p.Page,
		"limit":       p.Limit,
	})
}

// ResolveWithdrawal approves or rejects a pending request.
func (h *AdminHandler) ResolveWithdrawal(c *fiber.Ctx) error {
	var input struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	req, err := h.withdrawalService.Resolve(c.Context(), c.Params("id"), input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, withdrawal.ErrInvalidDecision):
			return utils.BadRequest(c, "Decision must be approved or rejected")
		case errors.Is(err, repositories.ErrWithdrawalNotFound):
			return utils.NotFound(c, "Withdrawal request not found")
		case errors.Is(err, withdrawal.ErrStateConflict):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Request was already resolved differently"})
		}
		log.Printf("Withdrawal resolution failed: %v", err)
		return utils.InternalError(c, "Failed to resolve withdrawal")
	}

	return utils.Success(c, fiber.Map{"request": req})
}

// Users

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)

	users, err := h.userService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load users")
	}

	total, err := h.userService.Count(c.Context())
	if err != nil {
		return utils.InternalError(c, "Failed to count users")
	}
	p.SetTotal(total)

	return utils.Success(c, utils.NewPaginatedResponse(users, p))
}

// SetUserBan bans or unbans an account. Banning also invalidates every live
// session token.
func (h *AdminHandler) SetUserBan(c *fiber.Ctx) error {
	var input struct {
		Banned bool `json:"banned"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	userID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	if err := h.userService.SetBanned(c.Context(), uint(userID), input.Banned); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to update ban status")
	}

	return utils.Success(c, fiber.Map{
		"user_id": userID,
		"banned":  input.Banned,
	})
}

// Tasks

func (h *AdminHandler) CreateTask(c *fiber.Ctx) error {
	var input struct {
		Title        string `json:"title"`
		Reward       int64  `json:"reward"`
		Description  string `json:"description"`
		URL          string `json:"url"`
		RequireProof bool   `json:"require_proof"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Title == "" || input.Reward <= 0 {
		return utils.BadRequest(c, "Title and a positive reward are required")
	}

	task := &models.Task{
		Title:        input.Title,
		Reward:       input.Reward,
		Description:  input.Description,
		URL:          input.URL,
		RequireProof: input.RequireProof,
		IsActive:     true,
	}
	if err := h.earningService.CreateTask(c.Context(), task); err != nil {
		return utils.InternalError(c, "Failed to create task")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{"task": task})
}

func (h *AdminHandler) DeactivateTask(c *fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid task ID")
	}

	if err := h.earningService.DeactivateTask(c.Context(), uint(taskID)); err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return utils.NotFound(c, "Task not found")
		}
		return utils.InternalError(c, "Failed to deactivate task")
	}

	return utils.Success(c, fiber.Map{"deactivated": true})
}

// Task proofs

func (h *AdminHandler) ListPendingProofs(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)

	proofs, err := h.earningService.ListPendingProofs(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to load proof queue")
	}

	return utils.Success(c, fiber.Map{
		"proofs": proofs,
		"page":   p.Page,
		"limit":  p.Limit,
	})
}

// ReviewProof approves or rejects a pending task proof. Approval credits the
// task reward.
func (h *AdminHandler) ReviewProof(c *fiber.Ctx) error {
	var input struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	proof, err := h.earningService.ReviewProof(c.Context(), c.Params("id"), input.Decision)
	if err != nil {
		switch {
		case errors.Is(err, earning.ErrInvalidDecision):
			return utils.BadRequest(c, "Decision must be approved or rejected")
		case errors.Is(err, repositories.ErrProofNotFound):
			return utils.NotFound(c, "Task proof not found")
		case errors.Is(err, earning.ErrStateConflict):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{"error": "Proof was already resolved differently"})
		}
		log.Printf("Proof review failed: %v", err)
		return utils.InternalError(c, "Failed to review proof")
	}

	return utils.Success(c, fiber.Map{"proof": proof})
}

// Reporting

// GetStats aggregates ledger totals over a date range, defaulting to the
// trailing 30 days.
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -30)

	if s := c.Query("start"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return utils.BadRequest(c, "start must be YYYY-MM-DD")
		}
		start = t
	}
	if e := c.Query("end"); e != "" {
		t, err := time.Parse("2006-01-02", e)
		if err != nil {
			return utils.BadRequest(c, "end must be YYYY-MM-DD")
		}
		end = t.AddDate(0, 0, 1) // inclusive end date
	}

	stats, err := h.ledgerService.Stats(c.Context(), start, end)
	if err != nil {
		return utils.InternalError(c, "Failed to load stats")
	}

	return utils.Success(c, fiber.Map{
		"start": start.Format("2006-01-02"),
		"end":   end.Format("2006-01-02"),
		"stats": stats,
	})
}
