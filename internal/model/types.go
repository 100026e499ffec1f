package model

import "time"

// User is an account observed from the external identity provider.
// IdentityID is the provider's subject id and is unique across users.
type User struct {
	UserID       string    `json:"userId"`
	IdentityID   string    `json:"identityId"`
	Email        string    `json:"email"`
	CreationTime time.Time `json:"creationTime"`
}

// Severity classifies a review issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
)

// Valid reports whether s is one of the declared severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityMajor, SeverityMinor:
		return true
	}
	return false
}

// Issue is a single finding reported by a linting provider.
type Issue struct {
	ID          string   `json:"id"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Severity    Severity `json:"severity"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestion  *string  `json:"suggestion,omitempty"`
}

// ExternalError is an aggregated runtime error reported by an error-tracking provider.
type ExternalError struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Level           string    `json:"level"`
	OccurrenceCount int       `json:"occurrenceCount"`
	FirstSeen       time.Time `json:"firstSeen"`
	LastSeen        time.Time `json:"lastSeen"`
	URL             *string   `json:"url,omitempty"`
}

// ReviewSummary holds issue counts and an optional 0-100 quality score.
type ReviewSummary struct {
	TotalIssues    int  `json:"totalIssues"`
	CriticalIssues int  `json:"criticalIssues"`
	MajorIssues    int  `json:"majorIssues"`
	MinorIssues    int  `json:"minorIssues"`
	CodeQuality    *int `json:"codeQuality,omitempty"`
}

// ReviewPayload is the analysis result attached to a review. It is stored
// opaquely and returned to callers unchanged.
type ReviewPayload struct {
	Summary           ReviewSummary   `json:"summary"`
	Issues            []Issue         `json:"issues"`
	ExternalErrors    []ExternalError `json:"externalErrors,omitempty"`
	AnalysisTimestamp time.Time       `json:"analysisTimestamp"`
	ToolsUsed         []string        `json:"toolsUsed"`
}

// Review is one analysis of a repository by a user. At most one review
// exists per (user, repo name); re-analysis replaces the payload in place
// and refreshes the timestamp.
type Review struct {
	ReviewID     string        `json:"reviewId"`
	UserID       string        `json:"userId"`
	RepoName     string        `json:"repoName"`
	RepoURL      string        `json:"repoUrl"`
	Payload      ReviewPayload `json:"payload"`
	CreationTime time.Time     `json:"creationTime"`
}

// ReviewDetail is a review enriched with the caller's bookmark state.
type ReviewDetail struct {
	Review
	IsSaved    bool    `json:"isSaved"`
	SavedNotes *string `json:"savedNotes,omitempty"`
}

// SavedReview is a user's bookmark of a review with an optional note.
// Notes are set at save time and never updated.
type SavedReview struct {
	SavedReviewID string    `json:"savedReviewId"`
	UserID        string    `json:"userId"`
	ReviewID      string    `json:"reviewId"`
	Notes         *string   `json:"notes,omitempty"`
	SaveTime      time.Time `json:"savedAt"`
}

// SavedReviewWithReview joins a bookmark with its referenced review.
type SavedReviewWithReview struct {
	SavedReview
	Review *Review `json:"review"`
}

// RecentActivity is a compact projection of a recent review.
type RecentActivity struct {
	ReviewID     string    `json:"id"`
	RepoName     string    `json:"repoName"`
	IssuesFound  int       `json:"issuesFound"`
	CreationTime time.Time `json:"createdAt"`
}

// ReviewStats aggregates a user's reviews for the dashboard.
type ReviewStats struct {
	TotalReviews     int              `json:"totalReviews"`
	TotalIssuesFound int              `json:"totalIssuesFound"`
	CriticalIssues   int              `json:"criticalIssues"`
	MajorIssues      int              `json:"majorIssues"`
	MinorIssues      int              `json:"minorIssues"`
	AvgCodeQuality   int              `json:"avgCodeQuality"`
	SavedReviews     int              `json:"savedReviews"`
	RecentActivity   []RecentActivity `json:"recentActivity"`
}
