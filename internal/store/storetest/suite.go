package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	identityID := "github|" + uuid.New().String()
	email := uuid.New().String() + "@example.test"

	// Users
	u, err := s.Users().Create(ctx, &model.User{IdentityID: identityID, Email: email})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" || u.CreationTime.IsZero() {
		t.Fatalf("CreateUser: missing id or timestamp: %+v", u)
	}
	if got, err := s.Users().GetByIdentity(ctx, identityID); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetByIdentity: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByIdentity(ctx, "github|missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByIdentity missing: want ErrNotFound, got %v", err)
	}
	if err := s.Users().UpdateEmail(ctx, u.UserID, "new-"+email); err != nil {
		t.Fatalf("UpdateEmail: %v", err)
	}
	if got, err := s.Users().GetByIdentity(ctx, identityID); err != nil || got.Email != "new-"+email {
		t.Fatalf("UpdateEmail not persisted: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByIdentity(ctx, identityID); err != nil || !got.CreationTime.Equal(u.CreationTime) {
		t.Fatalf("UpdateEmail must not touch creation time: got=%v err=%v", got, err)
	}

	// Reviews: first upsert inserts
	payload := model.ReviewPayload{
		Summary:           model.ReviewSummary{TotalIssues: 2, CriticalIssues: 1, MajorIssues: 1},
		Issues:            []model.Issue{{ID: "i1", File: "main.go", Line: 7, Severity: model.SeverityCritical, Category: "bug", Title: "nil deref", Description: "x may be nil"}},
		AnalysisTimestamp: time.Now().UTC().Truncate(time.Millisecond),
		ToolsUsed:         []string{"coderabbit"},
	}
	r1, err := s.Reviews().Upsert(ctx, &model.Review{UserID: u.UserID, RepoName: "acme/widgets", RepoURL: "https://github.com/acme/widgets", Payload: payload})
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}
	if r1.ReviewID == "" {
		t.Fatalf("Upsert insert: empty review id")
	}

	// Second upsert for the same repo replaces in place and keeps the id
	time.Sleep(5 * time.Millisecond) // ensure refreshed timestamp is observable
	payload2 := payload
	payload2.Summary.TotalIssues = 5
	payload2.ToolsUsed = []string{"coderabbit", "sentry"}
	r2, err := s.Reviews().Upsert(ctx, &model.Review{UserID: u.UserID, RepoName: "acme/widgets", RepoURL: "https://github.com/acme/widgets.git", Payload: payload2})
	if err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if r2.ReviewID != r1.ReviewID {
		t.Fatalf("Upsert replace: id changed %s -> %s", r1.ReviewID, r2.ReviewID)
	}
	got, err := s.Reviews().GetByID(ctx, r1.ReviewID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Payload.Summary.TotalIssues != 5 || got.RepoURL != "https://github.com/acme/widgets.git" {
		t.Fatalf("Upsert replace not persisted: %+v", got)
	}
	if !got.CreationTime.After(r1.CreationTime) {
		t.Fatalf("Upsert replace must refresh timestamp: %v -> %v", r1.CreationTime, got.CreationTime)
	}
	if len(got.Payload.Issues) != 1 || got.Payload.Issues[0].Severity != model.SeverityCritical {
		t.Fatalf("payload round trip mismatch: %+v", got.Payload)
	}

	// A different repo inserts a second review; List returns newest first
	time.Sleep(5 * time.Millisecond)
	r3, err := s.Reviews().Upsert(ctx, &model.Review{UserID: u.UserID, RepoName: "acme/gadgets", RepoURL: "https://github.com/acme/gadgets", Payload: payload})
	if err != nil {
		t.Fatalf("Upsert second repo: %v", err)
	}
	lst, err := s.Reviews().List(ctx, u.UserID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("List: n=%d err=%v", len(lst), err)
	}
	if lst[0].ReviewID != r3.ReviewID {
		t.Fatalf("List order: want %s first, got %s", r3.ReviewID, lst[0].ReviewID)
	}

	// Batch get omits unknown ids
	batch, err := s.Reviews().GetByIDs(ctx, []string{r1.ReviewID, "missing-id", r3.ReviewID})
	if err != nil || len(batch) != 2 {
		t.Fatalf("GetByIDs: n=%d err=%v", len(batch), err)
	}

	if _, err := s.Reviews().GetByUserAndRepo(ctx, u.UserID, "acme/nothing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByUserAndRepo missing: want ErrNotFound, got %v", err)
	}

	// SavedReviews
	note := "check before release"
	sv, err := s.SavedReviews().Create(ctx, &model.SavedReview{UserID: u.UserID, ReviewID: r1.ReviewID, Notes: &note})
	if err != nil {
		t.Fatalf("CreateSavedReview: %v", err)
	}
	if sv.SavedReviewID == "" || sv.SaveTime.IsZero() {
		t.Fatalf("CreateSavedReview: missing id or timestamp: %+v", sv)
	}
	if got, err := s.SavedReviews().Get(ctx, u.UserID, r1.ReviewID); err != nil || got.Notes == nil || *got.Notes != note {
		t.Fatalf("GetSavedReview: got=%v err=%v", got, err)
	}
	if n, err := s.SavedReviews().Count(ctx, u.UserID); err != nil || n != 1 {
		t.Fatalf("CountSavedReviews: n=%d err=%v", n, err)
	}
	if lst, err := s.SavedReviews().List(ctx, u.UserID); err != nil || len(lst) != 1 {
		t.Fatalf("ListSavedReviews: n=%d err=%v", len(lst), err)
	}
	if err := s.SavedReviews().Delete(ctx, u.UserID, r1.ReviewID); err != nil {
		t.Fatalf("DeleteSavedReview: %v", err)
	}
	if err := s.SavedReviews().Delete(ctx, u.UserID, r1.ReviewID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteSavedReview twice: want ErrNotFound, got %v", err)
	}
	if n, err := s.SavedReviews().Count(ctx, u.UserID); err != nil || n != 0 {
		t.Fatalf("CountSavedReviews after delete: n=%d err=%v", n, err)
	}
}
