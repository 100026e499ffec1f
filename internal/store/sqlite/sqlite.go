package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// New opens (or creates) a SQLite database at path, applies the schema and
// returns a store backed by it.
func New(ctx context.Context, path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := Bootstrap(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a SQLite store over an existing connection. The
// caller is responsible for schema bootstrap.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users               { return &users{db: s.db} }
func (s *sqliteStore) Reviews() store.Reviews           { return &reviews{db: s.db} }
func (s *sqliteStore) SavedReviews() store.SavedReviews { return &savedReviews{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, identity_id, email, created_at)
        VALUES (?,?,?,?)
    `, id, m.IdentityID, m.Email, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = now
	return &out, nil
}

func (u *users) GetByIdentity(ctx context.Context, identityID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, identity_id, email, created_at
        FROM users WHERE identity_id=?
    `, identityID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, identity_id, email, created_at
        FROM users WHERE email=?
    `, email)
	return scanUser(row)
}

func (u *users) UpdateEmail(ctx context.Context, userID, email string) error {
	res, err := u.db.ExecContext(ctx, `UPDATE users SET email=? WHERE user_id=?`, email, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*model.User, error) {
	var out model.User
	var createdMs int64
	if err := row.Scan(&out.UserID, &out.IdentityID, &out.Email, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.CreationTime = time.UnixMilli(createdMs).UTC()
	return &out, nil
}

// --- Reviews ---

type reviews struct{ db *sql.DB }

func (r *reviews) Upsert(ctx context.Context, m *model.Review) (*model.Review, error) {
	payload, err := json.Marshal(m.Payload)
	if err != nil {
		return nil, err
	}
	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Millisecond)
	// The unique index on (user_id, repo_name) makes re-analysis an in-place
	// replace that keeps the original review_id.
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO reviews (review_id, user_id, repo_name, repo_url, payload, created_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT(user_id, repo_name) DO UPDATE SET
            repo_url=excluded.repo_url,
            payload=excluded.payload,
            created_at=excluded.created_at
    `, id, m.UserID, m.RepoName, m.RepoURL, string(payload), now.UnixMilli())
	if err != nil {
		return nil, err
	}
	return r.GetByUserAndRepo(ctx, m.UserID, m.RepoName)
}

func (r *reviews) GetByID(ctx context.Context, reviewID string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE review_id=?
    `, reviewID)
	return scanReviewRow(row)
}

func (r *reviews) GetByUserAndRepo(ctx context.Context, userID, repoName string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE user_id=? AND repo_name=?
    `, userID, repoName)
	return scanReviewRow(row)
}

func (r *reviews) List(ctx context.Context, userID string) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE user_id=? ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectReviews(rows)
}

func (r *reviews) GetByIDs(ctx context.Context, reviewIDs []string) ([]*model.Review, error) {
	if len(reviewIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(reviewIDs)-1) + "?"
	args := make([]interface{}, len(reviewIDs))
	for i, id := range reviewIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE review_id IN (%s)
    `, placeholders), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectReviews(rows)
}

func scanReviewRow(row *sql.Row) (*model.Review, error) {
	var out model.Review
	var payload string
	var createdMs int64
	if err := row.Scan(&out.ReviewID, &out.UserID, &out.RepoName, &out.RepoURL, &payload, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &out.Payload); err != nil {
		return nil, err
	}
	out.CreationTime = time.UnixMilli(createdMs).UTC()
	return &out, nil
}

func collectReviews(rows *sql.Rows) ([]*model.Review, error) {
	var res []*model.Review
	for rows.Next() {
		var m model.Review
		var payload string
		var createdMs int64
		if err := rows.Scan(&m.ReviewID, &m.UserID, &m.RepoName, &m.RepoURL, &payload, &createdMs); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payload), &m.Payload); err != nil {
			return nil, err
		}
		m.CreationTime = time.UnixMilli(createdMs).UTC()
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- SavedReviews ---

type savedReviews struct{ db *sql.DB }

func (s *savedReviews) Create(ctx context.Context, m *model.SavedReview) (*model.SavedReview, error) {
	id := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Millisecond)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO saved_reviews (saved_review_id, user_id, review_id, notes, saved_at)
        VALUES (?,?,?,?,?)
    `, id, m.UserID, m.ReviewID, m.Notes, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	out := *m
	out.SavedReviewID = id
	out.SaveTime = now
	return &out, nil
}

func (s *savedReviews) Get(ctx context.Context, userID, reviewID string) (*model.SavedReview, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT saved_review_id, user_id, review_id, notes, saved_at
        FROM saved_reviews WHERE user_id=? AND review_id=?
    `, userID, reviewID)
	var out model.SavedReview
	var savedMs int64
	if err := row.Scan(&out.SavedReviewID, &out.UserID, &out.ReviewID, &out.Notes, &savedMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	out.SaveTime = time.UnixMilli(savedMs).UTC()
	return &out, nil
}

func (s *savedReviews) Delete(ctx context.Context, userID, reviewID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_reviews WHERE user_id=? AND review_id=?`, userID, reviewID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *savedReviews) List(ctx context.Context, userID string) ([]*model.SavedReview, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT saved_review_id, user_id, review_id, notes, saved_at
        FROM saved_reviews WHERE user_id=? ORDER BY saved_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.SavedReview
	for rows.Next() {
		var m model.SavedReview
		var savedMs int64
		if err := rows.Scan(&m.SavedReviewID, &m.UserID, &m.ReviewID, &m.Notes, &savedMs); err != nil {
			return nil, err
		}
		m.SaveTime = time.UnixMilli(savedMs).UTC()
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (s *savedReviews) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_reviews WHERE user_id=?`, userID).Scan(&n)
	return n, err
}
