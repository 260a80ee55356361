package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/99minutos/identity-system/internal/core/domain"
	"github.com/99minutos/identity-system/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Status returns the current state of an account. Callers may read their own
// account; admins may read any.
//
// @Summary      Account status
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/status [get]
func (h *AccountHandler) Status(c echo.Context) error {
	callerID, role, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathAccountID(c)
	if err != nil {
		return err
	}
	if id != callerID && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	account, err := h.accounts.Status(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Unlock clears an account's lockout.
//
// @Summary      Unlock account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /accounts/{id}/unlock [put]
func (h *AccountHandler) Unlock(c echo.Context) error {
	return h.transition(c, h.accounts.Unlock, "account unlocked")
}

// Activate re-enables a deactivated account.
//
// @Summary      Activate account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /accounts/{id}/activate [put]
func (h *AccountHandler) Activate(c echo.Context) error {
	return h.transition(c, h.accounts.Activate, "account activated")
}

// Deactivate disables an account. Existing sessions are refused by the gates.
//
// @Summary      Deactivate account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /accounts/{id}/deactivate [put]
func (h *AccountHandler) Deactivate(c echo.Context) error {
	return h.transition(c, h.accounts.Deactivate, "account deactivated")
}

func (h *AccountHandler) transition(
	c echo.Context,
	apply func(ctx context.Context, actor string, id uuid.UUID) error,
	message string,
) error {
	actor, _, err := ctxCaller(c)
	if err != nil {
		return err
	}
	id, err := pathAccountID(c)
	if err != nil {
		return err
	}
	if err := apply(c.Request().Context(), actor.String(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: message})
}

// ListLocked returns locked accounts with their lockout details.
//
// @Summary      Locked accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   lockedAccountResponse
// @Failure      403  {object}  map[string]string
// @Router       /accounts/locked [get]
func (h *AccountHandler) ListLocked(c echo.Context) error {
	accounts, err := h.accounts.ListLocked(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]lockedAccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toLockedAccountResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

// ListActive returns active accounts.
//
// @Summary      Active accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  map[string]string
// @Router       /accounts/active [get]
func (h *AccountHandler) ListActive(c echo.Context) error {
	accounts, err := h.accounts.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountList(accounts))
}

// ListInactive returns deactivated accounts.
//
// @Summary      Inactive accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  map[string]string
// @Router       /accounts/inactive [get]
func (h *AccountHandler) ListInactive(c echo.Context) error {
	accounts, err := h.accounts.ListInactive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountList(accounts))
}
