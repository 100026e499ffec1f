package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codecraft-dev/codecraft-server/internal/model"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// fakeStore is an in-memory store.Store for service tests. Error hooks
// let individual tests inject persistence failures.
type fakeStore struct {
	users        *fakeUsers
	reviews      *fakeReviews
	savedReviews *fakeSavedReviews
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        &fakeUsers{byID: map[string]*model.User{}},
		reviews:      &fakeReviews{byID: map[string]*model.Review{}},
		savedReviews: &fakeSavedReviews{byID: map[string]*model.SavedReview{}},
	}
}

func (f *fakeStore) Users() store.Users               { return f.users }
func (f *fakeStore) Reviews() store.Reviews           { return f.reviews }
func (f *fakeStore) SavedReviews() store.SavedReviews { return f.savedReviews }

type fakeUsers struct {
	byID map[string]*model.User
	err  error
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *u
	cp.UserID = uuid.NewString()
	cp.CreationTime = time.Now().UTC()
	f.byID[cp.UserID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUsers) GetByIdentity(_ context.Context, identityID string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.IdentityID == identityID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeUsers) UpdateEmail(_ context.Context, userID, email string) error {
	if f.err != nil {
		return f.err
	}
	u, ok := f.byID[userID]
	if !ok {
		return model.ErrNotFound
	}
	u.Email = email
	return nil
}

type fakeReviews struct {
	byID map[string]*model.Review
	err  error
	// clock lets tests control the timestamps assigned on upsert.
	clock func() time.Time
}

func (f *fakeReviews) now() time.Time {
	if f.clock != nil {
		return f.clock()
	}
	return time.Now().UTC()
}

func (f *fakeReviews) Upsert(_ context.Context, r *model.Review) (*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.UserID == r.UserID && existing.RepoName == r.RepoName {
			existing.RepoURL = r.RepoURL
			existing.Payload = r.Payload
			existing.CreationTime = f.now()
			cp := *existing
			return &cp, nil
		}
	}
	cp := *r
	cp.ReviewID = uuid.NewString()
	cp.CreationTime = f.now()
	f.byID[cp.ReviewID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeReviews) GetByID(_ context.Context, reviewID string) (*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byID[reviewID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviews) GetByUserAndRepo(_ context.Context, userID, repoName string) (*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.byID {
		if r.UserID == userID && r.RepoName == repoName {
			cp := *r
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (f *fakeReviews) List(_ context.Context, userID string) ([]*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Review
	for _, r := range f.byID {
		if r.UserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	return out, nil
}

func (f *fakeReviews) GetByIDs(_ context.Context, reviewIDs []string) ([]*model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Review
	for _, id := range reviewIDs {
		if r, ok := f.byID[id]; ok {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeSavedReviews struct {
	byID map[string]*model.SavedReview
	err  error
}

func (f *fakeSavedReviews) key(userID, reviewID string) string {
	return fmt.Sprintf("%s/%s", userID, reviewID)
}

func (f *fakeSavedReviews) Create(_ context.Context, s *model.SavedReview) (*model.SavedReview, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *s
	cp.SavedReviewID = uuid.NewString()
	cp.SaveTime = time.Now().UTC()
	f.byID[f.key(cp.UserID, cp.ReviewID)] = &cp
	out := cp
	return &out, nil
}

func (f *fakeSavedReviews) Get(_ context.Context, userID, reviewID string) (*model.SavedReview, error) {
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.byID[f.key(userID, reviewID)]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSavedReviews) Delete(_ context.Context, userID, reviewID string) error {
	if f.err != nil {
		return f.err
	}
	k := f.key(userID, reviewID)
	if _, ok := f.byID[k]; !ok {
		return model.ErrNotFound
	}
	delete(f.byID, k)
	return nil
}

func (f *fakeSavedReviews) List(_ context.Context, userID string) ([]*model.SavedReview, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.SavedReview
	for _, s := range f.byID {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SaveTime.After(out[j].SaveTime) })
	return out, nil
}

func (f *fakeSavedReviews) Count(_ context.Context, userID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, s := range f.byID {
		if s.UserID == userID {
			n++
		}
	}
	return n, nil
}
