package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/domain"
	"github.com/alvarocristensen-eng/alke-wallet-simple/internal/core/service"
)

type AccountHandler struct {
	Service *service.AccountService
}

// CreateAccountRequest defines what the caller sends us.
type CreateAccountRequest struct {
	OwnerName string `json:"owner_name"`
	Currency  string `json:"currency"`
}

// Amounts travel as JSON strings ("100.50") so they reach the decimal layer
// without a float detour.
type DepositRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type WithdrawRequest struct {
	Amount string `json:"amount"`
}

type ConvertRequest struct {
	Currency string `json:"currency"`
}

func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid account body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.OwnerName == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Owner name is required"})
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid currency. Use USD or CLP"})
	}

	account, err := h.Service.CreateAccount(c.Context(), req.OwnerName, currency)
	if err != nil {
		slog.Error("Failed to create account", "error", err, "owner", req.OwnerName)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	slog.Info("Account created", "id", account.ID, "owner", account.OwnerName, "currency", currency)
	return c.Status(http.StatusCreated).JSON(account)
}

func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	balance, err := h.Service.GetBalance(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"account_id": id, "balance": balance})
}

func (h *AccountHandler) Deposit(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid deposit body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be a positive decimal"})
	}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid currency. Use USD or CLP"})
	}

	account, err := h.Service.Deposit(c.Context(), id, domain.NewMoney(amount, currency))
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("Deposit accepted", "account_id", id, "balance", account.Balance.String())
	return c.JSON(fiber.Map{"status": "success", "balance": account.Balance})
}

func (h *AccountHandler) Withdraw(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid withdraw body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	amount, err := parsePositiveAmount(req.Amount)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Amount must be a positive decimal"})
	}

	account, err := h.Service.Withdraw(c.Context(), id, amount)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("Withdrawal accepted", "account_id", id, "balance", account.Balance.String())
	return c.JSON(fiber.Map{"status": "success", "balance": account.Balance})
}

func (h *AccountHandler) Convert(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	var req ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid convert body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	target, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid currency. Use USD or CLP"})
	}

	account, err := h.Service.ConvertAll(c.Context(), id, target)
	if err != nil {
		return respondError(c, err)
	}

	slog.Info("Balance converted", "account_id", id, "balance", account.Balance.String())
	return c.JSON(fiber.Map{"status": "success", "balance": account.Balance})
}

func (h *AccountHandler) GetTransactions(c *fiber.Ctx) error {
	id, err := parseAccountID(c)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	history, err := h.Service.GetTransactions(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"transactions": history})
}

func parseAccountID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("id"))
}

// parsePositiveAmount enforces the boundary contract: amount must be a
// well-formed decimal and strictly greater than zero. The service itself
// does not re-check positivity.
func parsePositiveAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	if !d.IsPositive() {
		return decimal.Decimal{}, domain.ErrInvalidInput
	}
	return d, nil
}

// respondError maps domain errors to HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	case errors.Is(err, domain.ErrInsufficientFunds):
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrUnsupportedCurrencyPair):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		slog.Error("Operation failed", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Internal error"})
	}
}
