// Package secscan detects secret material in text before it is allowed
// into a commit.
package secscan

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Finding reports a single pattern match.
type Finding struct {
	MatchedPattern string `json:"matched_pattern"`
	Location       string `json:"location"`
}

type pattern struct {
	name string
	re   *regexp.Regexp
}

// Scanner is a stateless, pattern-based secret detector. Patterns are
// compiled once; Scan is a pure function of its input and safe for
// concurrent use.
type Scanner struct {
	patterns []pattern
}

// NewScanner compiles the detection patterns: a generic high-entropy rule
// first, then vendor-specific token shapes.
func NewScanner() *Scanner {
	return &Scanner{
		patterns: []pattern{
			{name: "high-entropy", re: regexp.MustCompile(`[A-Za-z0-9+/]{20,}`)},
			{name: "github-fine-grained-pat", re: regexp.MustCompile(`github_pat_[A-Za-z0-9_]{82}`)},
			{name: "github-token", re: regexp.MustCompile(`ghp_[A-Za-z0-9]{36}`)},
			{name: "openai-key", re: regexp.MustCompile(`sk-[A-Za-z0-9]{48}`)},
			{name: "aws-access-key-id", re: regexp.MustCompile(`AKIA[A-Z0-9]{16}`)},
			{name: "slack-bot-token", re: regexp.MustCompile(`xoxb-[0-9]{10,13}-[0-9]{10,13}-[A-Za-z0-9]{24}`)},
		},
	}
}

// Scan evaluates every pattern against text and returns one finding per
// matching line and pattern. Findings are not deduplicated or ranked; any
// single finding is enough to flag the input.
func (s *Scanner) Scan(text string) []Finding {
	var findings []Finding

	lines := strings.Split(text, "\n")
	for _, p := range s.patterns {
		for i, line := range lines {
			if p.re.MatchString(line) {
				findings = append(findings, Finding{
					MatchedPattern: p.name,
					Location:       fmt.Sprintf("line %d", i+1),
				})
			}
		}
	}

	return findings
}

// ScanFile scans the contents of a file on disk. Findings carry the file
// path in their location.
func (s *Scanner) ScanFile(path string) ([]Finding, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file for scanning: %w", err)
	}

	findings := s.Scan(string(content))
	for i := range findings {
		findings[i].Location = path + ": " + findings[i].Location
	}

	return findings, nil
}
