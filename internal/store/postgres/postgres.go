package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

//go:embed schema.sql
var ddlFile string

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users               { return &users{db: s.db} }
func (s *pgStore) Reviews() store.Reviews           { return &reviews{db: s.db} }
func (s *pgStore) SavedReviews() store.SavedReviews { return &savedReviews{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap applies the schema; statements are idempotent so deployments
// with external migrations are unaffected.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, p := range strings.Split(ddlFile, ";") {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, identity_id, email)
        VALUES ($1,$2,$3)
        RETURNING created_at
    `, id, m.IdentityID, m.Email)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.UserID = id
	out.CreationTime = created
	return &out, nil
}

func (u *users) GetByIdentity(ctx context.Context, identityID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, identity_id, email, created_at
        FROM users WHERE identity_id=$1
    `, identityID)
	return scanUser(row)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, identity_id, email, created_at
        FROM users WHERE email=$1
    `, email)
	return scanUser(row)
}

func (u *users) UpdateEmail(ctx context.Context, userID, email string) error {
	res, err := u.db.ExecContext(ctx, `UPDATE users SET email=$1 WHERE user_id=$2`, email, userID)
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
	if err := row.Scan(&out.UserID, &out.IdentityID, &out.Email, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
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
	// The unique index on (user_id, repo_name) makes re-analysis an in-place
	// replace that keeps the original review_id.
	row := r.db.QueryRowContext(ctx, `
        INSERT INTO reviews (review_id, user_id, repo_name, repo_url, payload, created_at)
        VALUES ($1,$2,$3,$4,$5,now())
        ON CONFLICT (user_id, repo_name) DO UPDATE SET
            repo_url=excluded.repo_url,
            payload=excluded.payload,
            created_at=excluded.created_at
        RETURNING review_id, created_at
    `, id, m.UserID, m.RepoName, m.RepoURL, payload)
	out := *m
	if err := row.Scan(&out.ReviewID, &out.CreationTime); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reviews) GetByID(ctx context.Context, reviewID string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE review_id=$1
    `, reviewID)
	return scanReviewRow(row)
}

func (r *reviews) GetByUserAndRepo(ctx context.Context, userID, repoName string) (*model.Review, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE user_id=$1 AND repo_name=$2
    `, userID, repoName)
	return scanReviewRow(row)
}

func (r *reviews) List(ctx context.Context, userID string) ([]*model.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE user_id=$1 ORDER BY created_at DESC
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
	ph := make([]string, len(reviewIDs))
	args := make([]interface{}, len(reviewIDs))
	for i, id := range reviewIDs {
		ph[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT review_id, user_id, repo_name, repo_url, payload, created_at
        FROM reviews WHERE review_id IN (%s)
    `, strings.Join(ph, ",")), args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return collectReviews(rows)
}

func scanReviewRow(row *sql.Row) (*model.Review, error) {
	var out model.Review
	var payload []byte
	if err := row.Scan(&out.ReviewID, &out.UserID, &out.RepoName, &out.RepoURL, &payload, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(payload, &out.Payload); err != nil {
		return nil, err
	}
	return &out, nil
}

func collectReviews(rows *sql.Rows) ([]*model.Review, error) {
	var res []*model.Review
	for rows.Next() {
		var m model.Review
		var payload []byte
		if err := rows.Scan(&m.ReviewID, &m.UserID, &m.RepoName, &m.RepoURL, &payload, &m.CreationTime); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &m.Payload); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

// --- SavedReviews ---

type savedReviews struct{ db *sql.DB }

func (s *savedReviews) Create(ctx context.Context, m *model.SavedReview) (*model.SavedReview, error) {
	id := uuid.New().String()
	var saved time.Time
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO saved_reviews (saved_review_id, user_id, review_id, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING saved_at
    `, id, m.UserID, m.ReviewID, m.Notes)
	if err := row.Scan(&saved); err != nil {
		return nil, err
	}
	out := *m
	out.SavedReviewID = id
	out.SaveTime = saved
	return &out, nil
}

func (s *savedReviews) Get(ctx context.Context, userID, reviewID string) (*model.SavedReview, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT saved_review_id, user_id, review_id, notes, saved_at
        FROM saved_reviews WHERE user_id=$1 AND review_id=$2
    `, userID, reviewID)
	var out model.SavedReview
	if err := row.Scan(&out.SavedReviewID, &out.UserID, &out.ReviewID, &out.Notes, &out.SaveTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *savedReviews) Delete(ctx context.Context, userID, reviewID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_reviews WHERE user_id=$1 AND review_id=$2`, userID, reviewID)
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
        FROM saved_reviews WHERE user_id=$1 ORDER BY saved_at DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.SavedReview
	for rows.Next() {
		var m model.SavedReview
		if err := rows.Scan(&m.SavedReviewID, &m.UserID, &m.ReviewID, &m.Notes, &m.SaveTime); err != nil {
			return nil, err
		}
		res = append(res, &m)
	}
	return res, rows.Err()
}

func (s *savedReviews) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_reviews WHERE user_id=$1`, userID).Scan(&n)
	return n, err
}
