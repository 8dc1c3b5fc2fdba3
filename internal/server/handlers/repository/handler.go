package repository

import (
	"errors"
	"fmt"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/forgeworks/repocore/internal/repo"
	"github.com/forgeworks/repocore/internal/server/validation"
)

type Handler struct {
	repoSvc *repo.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(repoSvc *repo.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		repoSvc: repoSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/repository")

	r.Use(h.errorsHandler)
	r.Post("/open", validation.DecorateWithBodyEx(h.validator, h.open))
	r.Post("/init", validation.DecorateWithBodyEx(h.validator, h.init))
	r.Post("/clone", validation.DecorateWithBodyEx(h.validator, h.clone))
	r.Post("/close", h.close)
	r.Get("/", h.get)
	r.Get("/status", h.status)
	r.Get("/history", h.history)
	r.Post("/stage", validation.DecorateWithBodyEx(h.validator, h.stage))
	r.Post("/unstage", validation.DecorateWithBodyEx(h.validator, h.unstage))
	r.Post("/commit", validation.DecorateWithBodyEx(h.validator, h.commit))
	r.Post("/push", validation.DecorateWithBodyEx(h.validator, h.push))
	r.Post("/pull", validation.DecorateWithBodyEx(h.validator, h.pull))
	r.Get("/branches", h.branches)
	r.Post("/branches", validation.DecorateWithBodyEx(h.validator, h.createBranch))
	r.Post("/branches/checkout", validation.DecorateWithBodyEx(h.validator, h.checkout))
	r.Post("/branches/merge", validation.DecorateWithBodyEx(h.validator, h.merge))
	r.Delete("/branches/:name", h.deleteBranch)
}

func (h *Handler) open(c *fiber.Ctx, req *OpenRequest) error {
	if err := h.repoSvc.Open(req.Path); err != nil {
		return fmt.Errorf("failed to open repository: %w", err)
	}
	return h.get(c)
}

func (h *Handler) init(c *fiber.Ctx, req *OpenRequest) error {
	if err := h.repoSvc.Init(req.Path); err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse())
}

func (h *Handler) clone(c *fiber.Ctx, req *CloneRequest) error {
	if err := h.repoSvc.Clone(c.Context(), req.URL, req.Path, req.Token); err != nil {
		return fmt.Errorf("failed to clone repository: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.toResponse())
}

func (h *Handler) close(c *fiber.Ctx) error {
	h.repoSvc.Close()
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) get(c *fiber.Ctx) error {
	if h.repoSvc.Path() == "" {
		return repo.ErrNoRepositoryOpen
	}
	return c.JSON(h.toResponse())
}

func (h *Handler) status(c *fiber.Ctx) error {
	snap, err := h.repoSvc.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	return c.JSON(snap)
}

func (h *Handler) history(c *fiber.Ctx) error {
	limit := c.QueryInt("limit")

	records, err := h.repoSvc.GetCommitHistory(limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	responses := make([]CommitResponse, len(records))
	for i, record := range records {
		responses[i] = toCommitResponse(record)
	}
	return c.JSON(responses)
}

func (h *Handler) stage(c *fiber.Ctx, req *StageRequest) error {
	if err := h.repoSvc.StageFile(req.Path); err != nil {
		return fmt.Errorf("failed to stage file: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) unstage(c *fiber.Ctx, req *StageRequest) error {
	if err := h.repoSvc.UnstageFile(req.Path); err != nil {
		return fmt.Errorf("failed to unstage file: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) commit(c *fiber.Ctx, req *CommitRequest) error {
	record, err := h.repoSvc.CommitChanges(req.Message, req.Author)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCommitResponse(record))
}

func (h *Handler) push(c *fiber.Ctx, req *SyncRequest) error {
	if err := h.repoSvc.Push(c.Context(), req.Remote, req.Branch); err != nil {
		return fmt.Errorf("failed to push: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) pull(c *fiber.Ctx, req *SyncRequest) error {
	if err := h.repoSvc.Pull(c.Context(), req.Remote, req.Branch); err != nil {
		return fmt.Errorf("failed to pull: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) branches(c *fiber.Ctx) error {
	branches, err := h.repoSvc.GetBranches()
	if err != nil {
		return fmt.Errorf("failed to list branches: %w", err)
	}
	return c.JSON(branches)
}

func (h *Handler) createBranch(c *fiber.Ctx, req *CreateBranchRequest) error {
	if err := h.repoSvc.CreateBranch(req.Name, req.StartPoint); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *Handler) checkout(c *fiber.Ctx, req *BranchNameRequest) error {
	if err := h.repoSvc.CheckoutBranch(req.Name); err != nil {
		return fmt.Errorf("failed to checkout branch: %w", err)
	}
	return c.JSON(h.toResponse())
}

func (h *Handler) merge(c *fiber.Ctx, req *BranchNameRequest) error {
	if err := h.repoSvc.MergeBranch(req.Name); err != nil {
		return fmt.Errorf("failed to merge branch: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) deleteBranch(c *fiber.Ctx) error {
	name := c.Params("name")
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "branch name is required")
	}

	if err := h.repoSvc.DeleteBranch(name); err != nil {
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, repo.ErrNoRepositoryOpen):
		return fiber.NewError(fiber.StatusPreconditionFailed, err.Error())
	case errors.Is(err, repo.ErrBranchNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrBranchExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrNothingToCommit):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrSecretDetected):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repo.ErrCheckoutWouldOverwrite), errors.Is(err, repo.ErrMergeConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, repo.ErrNetwork):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}

func (h *Handler) toResponse() RepositoryResponse {
	return RepositoryResponse{
		Path:          h.repoSvc.Path(),
		CurrentBranch: h.repoSvc.CurrentBranch(),
	}
}
