package pullrequests

import (
	"errors"
	"fmt"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/github"
	"github.com/forgeworks/repocore/internal/server/validation"
)

type Handler struct {
	githubSvc *github.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(githubSvc *github.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		githubSvc: githubSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/github")

	r.Use(h.errorsHandler)
	r.Post("/configure", validation.DecorateWithBodyEx(h.validator, h.configure))
	r.Get("/pulls", h.list)
	r.Post("/pulls", validation.DecorateWithBodyEx(h.validator, h.create))
}

func (h *Handler) configure(c *fiber.Ctx, req *ConfigureRequest) error {
	if err := h.githubSvc.Configure(c.Context(), req.Token, req.Username); err != nil {
		return fmt.Errorf("failed to configure github integration: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) list(c *fiber.Ctx) error {
	prs, err := h.githubSvc.ListPullRequests(c.Context())
	if err != nil {
		return fmt.Errorf("failed to list pull requests: %w", err)
	}
	return c.JSON(prs)
}

func (h *Handler) create(c *fiber.Ctx, req *CreateRequest) error {
	pr, err := h.githubSvc.CreatePullRequest(c.Context(), github.NewPullRequest{
		Title: req.Title,
		Body:  req.Body,
		Head:  req.Head,
		Base:  req.Base,
	})
	if err != nil {
		return fmt.Errorf("failed to create pull request: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(pr)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, github.ErrNotConfigured):
		return fiber.NewError(fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, github.ErrRequestFailed):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
