package repository

import (
	"time"

	"github.com/forgeworks/repocore/internal/repo"
)

type OpenRequest struct {
	Path string `json:"path" validate:"required"`
}

type CloneRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Path  string `json:"path" validate:"required"`
	Token string `json:"token"`
}

type StageRequest struct {
	Path string `json:"path" validate:"required"`
}

type CommitRequest struct {
	Message string `json:"message" validate:"required"`
	Author  string `json:"author"`
}

type SyncRequest struct {
	Remote string `json:"remote"`
	Branch string `json:"branch"`
}

type CreateBranchRequest struct {
	Name       string `json:"name" validate:"required"`
	StartPoint string `json:"start_point"`
}

type BranchNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type RepositoryResponse struct {
	Path          string `json:"path"`
	CurrentBranch string `json:"current_branch"`
}

type CommitResponse struct {
	ID          string    `json:"id"`
	ShortID     string    `json:"short_id"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Time        time.Time `json:"time"`
	Message     string    `json:"message"`
	Summary     string    `json:"summary"`
	ParentCount int       `json:"parent_count"`
	Verified    bool      `json:"verified"`
}

func toCommitResponse(record repo.CommitRecord) CommitResponse {
	return CommitResponse{
		ID:          record.ID,
		ShortID:     record.ShortID,
		Author:      record.Author.Name,
		AuthorEmail: record.Author.Email,
		Time:        record.Author.When,
		Message:     record.Message,
		Summary:     record.Summary,
		ParentCount: record.ParentCount,
		Verified:    record.Verified,
	}
}
