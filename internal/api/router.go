package api

import (
	"github.com/gorilla/mux"

	"github.com/codecraft-dev/codecraft-server/internal/api/recovery"
	"github.com/codecraft-dev/codecraft-server/internal/auth"
	"github.com/codecraft-dev/codecraft-server/internal/services"
	"github.com/codecraft-dev/codecraft-server/internal/store"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(s store.Store, authorizer auth.Authorizer, isHealthy func() bool) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	userSvc := services.NewUserService(s)
	reviewSvc := services.NewReviewService(s)
	bookmarkSvc := services.NewBookmarkService(s)

	// Handlers
	healthHandler := NewHealthHandler(isHealthy)
	userHandler := NewUserHandler(userSvc, authorizer)
	reviewHandler := NewReviewHandler(reviewSvc, authorizer)
	bookmarkHandler := NewBookmarkHandler(bookmarkSvc, authorizer)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// User endpoints
	router.HandleFunc("/api/users", userHandler.UpsertUser).Methods("POST")

	// Review endpoints
	router.HandleFunc("/api/users/{identityId}/reviews", reviewHandler.UpsertReview).Methods("POST")
	router.HandleFunc("/api/users/{identityId}/reviews", reviewHandler.ListUserReviews).Methods("GET")
	router.HandleFunc("/api/users/{identityId}/reviews/{reviewId}", reviewHandler.GetReview).Methods("GET")
	router.HandleFunc("/api/users/{identityId}/stats", reviewHandler.GetReviewStats).Methods("GET")

	// Saved review endpoints
	router.HandleFunc("/api/users/{identityId}/saved-reviews", bookmarkHandler.AddBookmark).Methods("POST")
	router.HandleFunc("/api/users/{identityId}/saved-reviews", bookmarkHandler.ListSavedReviews).Methods("GET")
	router.HandleFunc("/api/users/{identityId}/saved-reviews/{reviewId}", bookmarkHandler.RemoveBookmark).Methods("DELETE")

	return router
}
