package repo

import "time"

const (
	defaultRemoteName      = "origin"
	defaultHistoryLimit    = 50
	defaultMonitorInterval = 2 * time.Second
	defaultIdentityName    = "RepoCore"
	defaultIdentityEmail   = "repocore@local"
)

type Config struct {
	// DefaultRemote is used by push and pull when no remote is given.
	DefaultRemote string
	// HistoryLimit caps commit walks when the caller passes no limit.
	HistoryLimit int
	// MonitorInterval is the change monitor polling period.
	MonitorInterval time.Duration
	// IdentityName and IdentityEmail form the fallback commit author.
	IdentityName  string
	IdentityEmail string
}

func (c Config) withDefaults() Config {
	if c.DefaultRemote == "" {
		c.DefaultRemote = defaultRemoteName
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = defaultHistoryLimit
	}
	if c.MonitorInterval <= 0 {
		c.MonitorInterval = defaultMonitorInterval
	}
	if c.IdentityName == "" {
		c.IdentityName = defaultIdentityName
	}
	if c.IdentityEmail == "" {
		c.IdentityEmail = defaultIdentityEmail
	}
	return c
}
