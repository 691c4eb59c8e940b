package admin

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/http/middleware"
	"ateliernoor.nl/app/internal/http/validation"
	"ateliernoor.nl/app/internal/modules/returns"
	"ateliernoor.nl/app/internal/shared/apperr"
)

type ReturnsHandler struct {
	Svc *returns.Service
}

func NewReturnsHandler(svc *returns.Service) *ReturnsHandler {
	return &ReturnsHandler{Svc: svc}
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
	AdminNotes      string `json:"admin_notes"`
}

func (h *ReturnsHandler) Reject(c *gin.Context) {
	u, _ := middleware.CurrentUser(c) // admin guaranteed by route guard

	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Controleer de invoer.", validation.FromBindError(err, &req)))
		return
	}

	ret, err := h.Svc.Reject(c.Request.Context(), returns.RejectInput{
		ReturnID:    c.Param("id"),
		ActorUserID: u.ID,
		Reason:      req.RejectionReason,
		AdminNotes:  req.AdminNotes,
	})
	if err != nil {
		middleware.Fail(c, mapTransitionErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "return": ret})
}

type receiveRequest struct {
	AdminNotes string `json:"admin_notes"`
}

func (h *ReturnsHandler) Receive(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var req receiveRequest
	// body is optional: confirming receipt without notes is the common case
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.Fail(c, apperr.InvalidErr("Controleer de invoer.", validation.FromBindError(err, &req)))
		return
	}

	ret, err := h.Svc.ConfirmReceived(c.Request.Context(), returns.ConfirmReceivedInput{
		ReturnID:    c.Param("id"),
		ActorUserID: u.ID,
		AdminNotes:  req.AdminNotes,
	})
	if err != nil {
		middleware.Fail(c, mapTransitionErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "return": ret})
}

func mapTransitionErr(err error) error {
	var ite *returns.InvalidTransitionError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundErr("Retour niet gevonden.")
	case errors.As(err, &ite):
		return apperr.InvalidTransitionErr(
			fmt.Sprintf("Ongeldige statusovergang: retour heeft status %q.", ite.Current), err)
	case errors.Is(err, returns.ErrReasonRequired):
		return apperr.InvalidErr("Geef een reden voor de afwijzing op.",
			map[string]string{"rejection_reason": "Dit veld is verplicht."})
	default:
		return apperr.Wrap(err)
	}
}
