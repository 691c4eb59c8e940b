package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/http/middleware"
	"ateliernoor.nl/app/internal/modules/orders"
	"ateliernoor.nl/app/internal/modules/returns"
	"ateliernoor.nl/app/internal/modules/shipping"
	"ateliernoor.nl/app/internal/shared/apperr"
	"ateliernoor.nl/app/internal/storage"
)

type ReturnsHandler struct {
	DB      *gorm.DB
	Svc     *returns.Service
	Carrier *shipping.Gateway
	Archive storage.Archive
	Log     *slog.Logger
}

func NewReturnsHandler(db *gorm.DB, svc *returns.Service, carrier *shipping.Gateway, archive storage.Archive, log *slog.Logger) *ReturnsHandler {
	return &ReturnsHandler{DB: db, Svc: svc, Carrier: carrier, Archive: archive, Log: log}
}

// Detail returns the return joined with its order and the full timeline,
// newest history entry first.
func (h *ReturnsHandler) Detail(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Inloggen vereist."))
		return
	}

	res, err := h.Svc.Fetch(c.Request.Context(), returns.FetchInput{
		ReturnID:    c.Param("id"),
		RequesterID: u.ID,
		IsAdmin:     u.IsAdmin(),
	})
	if err != nil {
		middleware.Fail(c, mapFetchErr(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"return":         res.Return,
		"order":          orderWithItems(res.Order, res.Items),
		"status_history": res.History,
	})
}

// DownloadLabel proxies the label PDF from the carrier. The carrier URL and
// credentials never reach the browser; we stream the bytes with an attachment
// disposition instead.
func (h *ReturnsHandler) DownloadLabel(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		middleware.Fail(c, apperr.UnauthorizedErr("Inloggen vereist."))
		return
	}

	res, err := h.Svc.Fetch(c.Request.Context(), returns.FetchInput{
		ReturnID:    c.Param("id"),
		RequesterID: u.ID,
		IsAdmin:     u.IsAdmin(),
	})
	if err != nil {
		middleware.Fail(c, mapFetchErr(err))
		return
	}

	ret := res.Return
	if ret.ReturnLabelURL == nil || *ret.ReturnLabelURL == "" {
		middleware.Fail(c, apperr.NotFoundErr("Er is nog geen retourlabel beschikbaar."))
		return
	}

	data, contentType, err := h.Carrier.FetchLabel(c.Request.Context(), *ret.ReturnLabelURL)
	if err != nil {
		var ce *shipping.CarrierError
		if errors.As(err, &ce) {
			middleware.Fail(c, apperr.CarrierErr(
				fmt.Sprintf("Labelprovider gaf status %d.", ce.StatusCode), ce))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	filename := "retourlabel-" + shortID(ret.ID) + ".pdf"
	h.archiveLabel(c, ret, filename, contentType, data)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// archiveLabel keeps a server-side copy the first time a label is proxied.
// Best-effort: an archive failure must never break the download.
func (h *ReturnsHandler) archiveLabel(c *gin.Context, ret returns.Return, filename, contentType string, data []byte) {
	if h.Archive == nil || ret.LabelArchiveKey != nil {
		return
	}

	res, err := h.Archive.Put(c.Request.Context(), bytes.NewReader(data), storage.PutInput{
		Key:         filename,
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err == nil {
		err = returns.NewRepo(h.DB).SetLabelArchiveKey(c.Request.Context(), ret.ID, res.Key)
	}
	if err != nil {
		h.Log.LogAttrs(c.Request.Context(), slog.LevelError, "label_archive_failed",
			slog.String("return_id", ret.ID),
			slog.Any("err", err),
		)
	}
}

func mapFetchErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFoundErr("Retour niet gevonden.")
	case errors.Is(err, returns.ErrForbidden):
		return apperr.ForbiddenErr("Geen toegang tot deze retour.")
	default:
		return apperr.Wrap(err)
	}
}

func orderWithItems(o orders.Order, items []orders.OrderItem) any {
	return struct {
		orders.Order
		Items []orders.OrderItem `json:"items"`
	}{Order: o, Items: items}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
