package validate

import (
	"strings"
	"testing"

	"github.com/codecraft-dev/codecraft-server/internal/model"
)

func stringPtr(s string) *string { return &s }
func intPtr(v int) *int          { return &v }

func TestUpsertUser_InvalidEmail(t *testing.T) {
	if err := UpsertUser("oauth|alice", "bad email"); err == nil {
		t.Fatalf("expected error for invalid email")
	}
}

func TestUpsertUser_MissingIdentity(t *testing.T) {
	if err := UpsertUser("", "alice@example.com"); err == nil {
		t.Fatalf("expected error for missing identityId")
	}
}

func TestRepoName(t *testing.T) {
	tests := []struct {
		name        string
		repo        string
		expectError bool
	}{
		{name: "valid full name", repo: "alice/widgets"},
		{name: "valid with dots and dashes", repo: "org-1/my.repo_x"},
		{name: "empty", repo: "", expectError: true},
		{name: "missing owner", repo: "/widgets", expectError: true},
		{name: "missing name", repo: "alice/", expectError: true},
		{name: "bare name", repo: "widgets", expectError: true},
		{name: "too long", repo: strings.Repeat("a", 100) + "/" + strings.Repeat("b", 50), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RepoName(tt.repo)
			if tt.expectError && err == nil {
				t.Fatalf("expected error for repo '%s'", tt.repo)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error for repo '%s': %v", tt.repo, err)
			}
		})
	}
}

func TestRepoURL(t *testing.T) {
	if err := RepoURL(""); err != nil {
		t.Fatalf("empty url should be allowed: %v", err)
	}
	if err := RepoURL("https://github.com/alice/widgets"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"ftp://x/y", "not a url", "https://"} {
		if err := RepoURL(bad); err == nil {
			t.Fatalf("expected error for url '%s'", bad)
		}
	}
}

func TestPayload(t *testing.T) {
	valid := &model.ReviewPayload{
		Summary: model.ReviewSummary{TotalIssues: 2, CriticalIssues: 1, MinorIssues: 1, CodeQuality: intPtr(85)},
		Issues: []model.Issue{
			{ID: "i1", Severity: model.SeverityCritical},
			{ID: "i2", Severity: model.SeverityMinor},
		},
	}
	if err := Payload(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := Payload(nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}

	negative := &model.ReviewPayload{Summary: model.ReviewSummary{TotalIssues: -1}}
	if err := Payload(negative); err == nil {
		t.Fatalf("expected error for negative counts")
	}

	outOfRange := &model.ReviewPayload{Summary: model.ReviewSummary{CodeQuality: intPtr(140)}}
	if err := Payload(outOfRange); err == nil {
		t.Fatalf("expected error for out-of-range codeQuality")
	}

	badSeverity := &model.ReviewPayload{Issues: []model.Issue{{ID: "i1", Severity: "fatal"}}}
	if err := Payload(badSeverity); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}

func TestAddBookmark(t *testing.T) {
	if err := AddBookmark("rid-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := AddBookmark("", nil); err == nil {
		t.Fatalf("expected error for missing reviewId")
	}
	long := strings.Repeat("n", 2001)
	if err := AddBookmark("rid-1", &long); err == nil {
		t.Fatalf("expected error for oversized notes")
	}
}

func TestMaxLen(t *testing.T) {
	if err := MaxLen("notes", nil, 10); err != nil {
		t.Fatalf("nil should pass: %v", err)
	}
	if err := MaxLen("notes", stringPtr(strings.Repeat("a", 11)), 10); err == nil {
		t.Fatalf("expected error past limit")
	}
	if err := MaxLen("notes", stringPtr(strings.Repeat("a", 10)), 10); err != nil {
		t.Fatalf("at-limit should pass: %v", err)
	}
}
