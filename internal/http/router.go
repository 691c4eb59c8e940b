package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ateliernoor.nl/app/internal/http/handlers"
	adminhandlers "ateliernoor.nl/app/internal/http/handlers/admin"
	"ateliernoor.nl/app/internal/http/middleware"
	"ateliernoor.nl/app/internal/modules/email"
	"ateliernoor.nl/app/internal/modules/returns"
	"ateliernoor.nl/app/internal/modules/shipping"
	"ateliernoor.nl/app/internal/storage"
)

type Deps struct {
	DB      *gorm.DB
	Log     *slog.Logger
	Mailer  email.Service
	Carrier *shipping.Gateway
	Archive storage.Archive
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Log),
		middleware.Recovery(d.Log),
		middleware.ErrorHandler(d.Log),
		middleware.Session(d.DB),
	)

	svc := returns.NewService(d.DB, d.Mailer, d.Log)
	rh := handlers.NewReturnsHandler(d.DB, svc, d.Carrier, d.Archive, d.Log)
	ah := adminhandlers.NewReturnsHandler(svc)

	api := r.Group("/api")
	{
		ret := api.Group("/returns", middleware.RequireAuth())
		{
			ret.GET("/:id", rh.Detail)
			ret.GET("/:id/label", rh.DownloadLabel)
		}

		adm := api.Group("/admin", middleware.RequireAdmin())
		{
			adm.POST("/returns/:id/reject", ah.Reject)
			adm.POST("/returns/:id/receive", ah.Receive)
		}
	}

	return r
}
