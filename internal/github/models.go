package github

import "time"

type Config struct {
	// Owner and Repository identify the default GitHub project for pull
	// request operations. Both can be overridden per call.
	Owner      string
	Repository string
}

// PullRequest is the subset of GitHub pull request data the service
// exposes.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	State     string    `json:"state"`
	Author    string    `json:"author"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPullRequest describes a pull request to create.
type NewPullRequest struct {
	Title string
	Body  string
	Head  string
	Base  string
}
