// Package insights exposes the analytics engine over HTTP. All responses
// are advisory aggregates; an empty result means no snapshot has been
// computed yet.
package insights

import (
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/repo"
)

type Handler struct {
	repoSvc *repo.Service

	logger *zap.Logger
}

func NewHandler(repoSvc *repo.Service, logger *zap.Logger) handler.Handler {
	return &Handler{
		repoSvc: repoSvc,

		logger: logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/insights")

	r.Get("/metrics", h.metrics)
	r.Get("/ownership", h.ownership)
	r.Get("/coupling", h.coupling)
	r.Get("/risky-files", h.riskyFiles)
	r.Get("/impact", h.impact)
	r.Get("/quality", h.quality)
}

func (h *Handler) metrics(c *fiber.Ctx) error {
	return c.JSON(h.repoSvc.GetCodeMetrics())
}

func (h *Handler) ownership(c *fiber.Ctx) error {
	return c.JSON(OwnershipResponse{Entries: h.repoSvc.GetOwnershipData()})
}

func (h *Handler) coupling(c *fiber.Ctx) error {
	return c.JSON(h.repoSvc.GetCouplingMatrix())
}

func (h *Handler) riskyFiles(c *fiber.Ctx) error {
	return c.JSON(RiskyFilesResponse{Files: h.repoSvc.IdentifyRiskyFiles()})
}

func (h *Handler) impact(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path query parameter is required")
	}
	return c.JSON(h.repoSvc.GetChangeImpact(path))
}

func (h *Handler) quality(c *fiber.Ctx) error {
	path := c.Query("path")
	if path == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path query parameter is required")
	}
	return c.JSON(QualityResponse{
		Path:  path,
		Score: h.repoSvc.PredictQualityScore(path),
	})
}
