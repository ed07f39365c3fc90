package members

import (
	"github.com/labstack/echo/v4"
	"github.com/libradesk/circulation/pkg/config"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers member routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, cfg *config.Config) {
	h := &handler{
		memberService:  NewService(db),
		strictNotFound: cfg.StrictNotFound,
	}

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.deleteMember)
}
