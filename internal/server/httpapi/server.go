// Package httpapi exposes the scheduling engine over HTTP/JSON. Transport
// only: it authenticates the bearer token, decodes and encodes payloads, and
// maps service errors to status codes plus stable error codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kotoba-app/kotoba/internal/logging"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/services"
)

// QueueFetcher fetches study queues.
type QueueFetcher interface {
	FetchQueue(ctx context.Context, params *services.FetchQueueParams) ([]int64, error)
}

// ReviewRecorder records review outcomes.
type ReviewRecorder interface {
	RecordReview(ctx context.Context, params *services.RecordReviewParams) (*models.AccountCard, error)
}

// CardPusher shifts due dates forward.
type CardPusher interface {
	PushCards(ctx context.Context, params *services.PushCardsParams) (int64, error)
}

// SettingsManager reads and writes deck quota policies.
type SettingsManager interface {
	GetOrCreateSettings(ctx context.Context, accountID string, deckID int64) (*models.DeckSettings, error)
	UpdateSettings(ctx context.Context, params *services.UpdateSettingsParams) (*models.DeckSettings, error)
}

// CustomDataEditor stores per-account story/hint text.
type CustomDataEditor interface {
	EditCustomData(ctx context.Context, params *services.EditCustomDataParams) (*models.AccountCard, error)
}

// ProgressReporter derives progress figures.
type ProgressReporter interface {
	LearningStatistics(ctx context.Context, params *services.LearningStatisticsParams) (*models.LearningProgress, error)
	DueProjection(ctx context.Context, params *services.DueProjectionParams) ([]models.DueProjectionBucket, error)
	ReviewHistory(ctx context.Context, params *services.ReviewHistoryParams) ([]models.DailyReviewCount, error)
}

// Server is the HTTP front of the engine.
type Server struct {
	address         string
	logger          logging.Logger
	jwtSecret       []byte
	shutdownTimeout time.Duration
	mux             *http.ServeMux

	queue    QueueFetcher
	reviews  ReviewRecorder
	pusher   CardPusher
	settings SettingsManager
	custom   CustomDataEditor
	progress ProgressReporter
}

func NewServer(
	address string,
	logger logging.Logger,
	secretKey string,
	shutdownTimeout time.Duration,
	queue QueueFetcher,
	reviews ReviewRecorder,
	pusher CardPusher,
	settings SettingsManager,
	custom CustomDataEditor,
	progress ProgressReporter,
) *Server {
	s := &Server{
		address:         address,
		logger:          logger.With("module", "httpapi"),
		jwtSecret:       []byte(secretKey),
		shutdownTimeout: shutdownTimeout,
		mux:             http.NewServeMux(),
		queue:           queue,
		reviews:         reviews,
		pusher:          pusher,
		settings:        settings,
		custom:          custom,
		progress:        progress,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/v1/decks/{deckID}/cards", s.withAuth(s.handleFetchQueue))
	s.mux.HandleFunc("POST /api/v1/reviews", s.withAuth(s.handleRecordReview))
	s.mux.HandleFunc("POST /api/v1/cards/push", s.withAuth(s.handlePushCards))
	s.mux.HandleFunc("GET /api/v1/decks/{deckID}/settings", s.withAuth(s.handleGetSettings))
	s.mux.HandleFunc("PATCH /api/v1/decks/{deckID}/settings", s.withAuth(s.handleUpdateSettings))
	s.mux.HandleFunc("POST /api/v1/cards/{cardID}/custom", s.withAuth(s.handleEditCustomData))
	s.mux.HandleFunc("GET /api/v1/progress/learning", s.withAuth(s.handleLearningStatistics))
	s.mux.HandleFunc("GET /api/v1/progress/due", s.withAuth(s.handleDueProjection))
	s.mux.HandleFunc("GET /api/v1/progress/history", s.withAuth(s.handleReviewHistory))
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.mux,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "Shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
