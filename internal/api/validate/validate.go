// Package validate holds request-level input validation helpers.
package validate

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/codecraft-dev/codecraft-server/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// repoNameRx matches "owner/name" GitHub-style full names.
var repoNameRx = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*/[A-Za-z0-9._-]+$`)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// RepoName validates a GitHub-style "owner/name" repository full name.
func RepoName(v string) error {
	if v == "" {
		return fmt.Errorf("repoName is required")
	}
	if len(v) > 140 || !repoNameRx.MatchString(v) {
		return fmt.Errorf("repoName must be of the form owner/name")
	}
	return nil
}

// RepoURL validates an optional http(s) repository URL.
func RepoURL(v string) error {
	if v == "" {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("repoUrl must be an http(s) URL")
	}
	return nil
}

// Payload validates the shape of an analysis payload: non-negative issue
// counts, a 0-100 quality score when present, and declared severities on
// every issue.
func Payload(p *model.ReviewPayload) error {
	if p == nil {
		return fmt.Errorf("payload is required")
	}
	s := p.Summary
	if s.TotalIssues < 0 || s.CriticalIssues < 0 || s.MajorIssues < 0 || s.MinorIssues < 0 {
		return fmt.Errorf("issue counts must be non-negative")
	}
	if s.CodeQuality != nil && (*s.CodeQuality < 0 || *s.CodeQuality > 100) {
		return fmt.Errorf("codeQuality must be between 0 and 100")
	}
	for i, issue := range p.Issues {
		if !issue.Severity.Valid() {
			return fmt.Errorf("issues[%d].severity %q is not one of critical, major, minor", i, issue.Severity)
		}
	}
	return nil
}

// -------- Request specific helpers ----------

// UpsertUser validates input for the user upsert.
func UpsertUser(identityID, email string) error {
	if err := NonEmpty("identityId", identityID); err != nil {
		return err
	}
	return Email(email)
}

// UpsertReview validates input for the review upsert.
func UpsertReview(repoName, repoURL string, payload *model.ReviewPayload) error {
	if err := RepoName(repoName); err != nil {
		return err
	}
	if err := RepoURL(repoURL); err != nil {
		return err
	}
	return Payload(payload)
}

// AddBookmark validates input for saving a review.
func AddBookmark(reviewID string, notes *string) error {
	if err := NonEmpty("reviewId", reviewID); err != nil {
		return err
	}
	return MaxLen("notes", notes, 2000)
}
