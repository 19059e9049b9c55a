package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kotoba-app/kotoba/internal/common"
	"github.com/kotoba-app/kotoba/internal/datex"
	"github.com/kotoba-app/kotoba/internal/server/models"
	"github.com/kotoba-app/kotoba/internal/server/services"
	"github.com/kotoba-app/kotoba/internal/validatex"
)

type queueResponse struct {
	CardIDs []int64 `json:"card_ids"`
	Code    string  `json:"code,omitempty"`
}

type accountCardResponse struct {
	CardID      int64             `json:"card_id"`
	ReviewType  models.ReviewType `json:"review_type"`
	ReviewCount int               `json:"review_count"`
	EasyFactor  float64           `json:"easy_factor"`
	DueAt       datex.Day         `json:"due_at"`
	Mature      bool              `json:"mature"`
	Story       *string           `json:"story,omitempty"`
	Hint        *string           `json:"hint,omitempty"`
}

func newAccountCardResponse(record *models.AccountCard) *accountCardResponse {
	if record == nil {
		return nil
	}
	return &accountCardResponse{
		CardID:      record.CardID,
		ReviewType:  record.ReviewType,
		ReviewCount: record.ReviewCount,
		EasyFactor:  record.EasyFactor,
		DueAt:       record.DueAt,
		Mature:      record.Mature,
		Story:       record.Story,
		Hint:        record.Hint,
	}
}

type settingsResponse struct {
	DeckID         int64 `json:"deck_id"`
	Favorite       bool  `json:"favorite"`
	ReviewInterval int   `json:"review_interval"`
	ReviewsPerDay  int   `json:"reviews_per_day"`
	NewCardsPerDay int   `json:"new_cards_per_day"`
}

func newSettingsResponse(s *models.DeckSettings) *settingsResponse {
	return &settingsResponse{
		DeckID:         s.DeckID,
		Favorite:       s.Favorite,
		ReviewInterval: s.ReviewInterval,
		ReviewsPerDay:  s.ReviewsPerDay,
		NewCardsPerDay: s.NewCardsPerDay,
	}
}

func (s *Server) handleFetchQueue(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_DECK"}})
		return
	}
	today, err := queryDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ids, err := s.queue.FetchQueue(r.Context(), &services.FetchQueueParams{
		AccountID:  accountIDFromContext(r.Context()),
		DeckID:     deckID,
		ReviewType: models.ReviewType(strings.ToUpper(r.URL.Query().Get("reviewType"))),
		Mode:       models.QueueMode(strings.ToUpper(r.URL.Query().Get("mode"))),
		Today:      today,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := queueResponse{CardIDs: ids}
	if len(ids) == 0 {
		resp.CardIDs = []int64{}
		resp.Code = common.CodeNoCardsAvailable
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordReview(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CardID        int64     `json:"card_id"`
		ReviewType    string    `json:"review_type"`
		Result        string    `json:"result"`
		NewInterval   int       `json:"new_interval"`
		NewEasyFactor float64   `json:"new_easy_factor"`
		ExtraReview   bool      `json:"extra_review"`
		Timing        *float64  `json:"timing"`
		Date          datex.Day `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_BODY"}})
		return
	}

	record, err := s.reviews.RecordReview(r.Context(), &services.RecordReviewParams{
		AccountID:     accountIDFromContext(r.Context()),
		CardID:        req.CardID,
		ReviewType:    models.ReviewType(req.ReviewType),
		Result:        models.ReviewResult(req.Result),
		NewInterval:   req.NewInterval,
		NewEasyFactor: req.NewEasyFactor,
		ExtraReview:   req.ExtraReview,
		Timing:        req.Timing,
		Today:         req.Date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountCardResponse(record))
}

func (s *Server) handlePushCards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeckID *int64    `json:"deck_id"`
		Days   int       `json:"days"`
		Date   datex.Day `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_BODY"}})
		return
	}

	pushed, err := s.pusher.PushCards(r.Context(), &services.PushCardsParams{
		AccountID: accountIDFromContext(r.Context()),
		DeckID:    req.DeckID,
		Days:      req.Days,
		Today:     req.Date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"pushed": pushed})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_DECK"}})
		return
	}

	settings, err := s.settings.GetOrCreateSettings(r.Context(), accountIDFromContext(r.Context()), deckID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	deckID, err := pathID(r, "deckID")
	if err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_DECK"}})
		return
	}

	var req struct {
		Favorite       bool `json:"favorite"`
		ReviewInterval int  `json:"review_interval"`
		ReviewsPerDay  int  `json:"reviews_per_day"`
		NewCardsPerDay int  `json:"new_cards_per_day"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_BODY"}})
		return
	}

	settings, err := s.settings.UpdateSettings(r.Context(), &services.UpdateSettingsParams{
		AccountID:      accountIDFromContext(r.Context()),
		DeckID:         deckID,
		Favorite:       req.Favorite,
		ReviewInterval: req.ReviewInterval,
		ReviewsPerDay:  req.ReviewsPerDay,
		NewCardsPerDay: req.NewCardsPerDay,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSettingsResponse(settings))
}

func (s *Server) handleEditCustomData(w http.ResponseWriter, r *http.Request) {
	cardID, err := pathID(r, "cardID")
	if err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_CARD"}})
		return
	}

	var req struct {
		ReviewType string    `json:"review_type"`
		Story      *string   `json:"story"`
		Hint       *string   `json:"hint"`
		Date       datex.Day `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &validatex.Error{Codes: []string{"ERR_INVALID_BODY"}})
		return
	}

	record, err := s.custom.EditCustomData(r.Context(), &services.EditCustomDataParams{
		AccountID:  accountIDFromContext(r.Context()),
		CardID:     cardID,
		ReviewType: models.ReviewType(req.ReviewType),
		Story:      req.Story,
		Hint:       req.Hint,
		Today:      req.Date,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newAccountCardResponse(record))
}

func (s *Server) handleLearningStatistics(w http.ResponseWriter, r *http.Request) {
	progress, err := s.progress.LearningStatistics(r.Context(), &services.LearningStatisticsParams{
		AccountID:  accountIDFromContext(r.Context()),
		CardType:   models.CardType(strings.ToUpper(r.URL.Query().Get("cardType"))),
		ReviewType: models.ReviewType(strings.ToUpper(r.URL.Query().Get("reviewType"))),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (s *Server) handleDueProjection(w http.ResponseWriter, r *http.Request) {
	today, err := queryDate(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	buckets, err := s.progress.DueProjection(r.Context(), &services.DueProjectionParams{
		AccountID: accountIDFromContext(r.Context()),
		LimitDays: queryInt(r, "limitDays"),
		Today:     today,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if buckets == nil {
		buckets = []models.DueProjectionBucket{}
	}
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleReviewHistory(w http.ResponseWriter, r *http.Request) {
	counts, err := s.progress.ReviewHistory(r.Context(), &services.ReviewHistoryParams{
		AccountID: accountIDFromContext(r.Context()),
		LimitDays: queryInt(r, "limitDays"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	type dayCount struct {
		Date  datex.Day `json:"date"`
		Count int       `json:"count"`
	}
	resp := make([]dayCount, 0, len(counts))
	for _, c := range counts {
		resp = append(resp, dayCount{Date: c.Day, Count: c.Count})
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

// queryDate reads the client's calendar day from the date query parameter.
func queryDate(r *http.Request) (datex.Day, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return datex.Day{}, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}
	day, err := datex.Parse(raw)
	if err != nil {
		return datex.Day{}, &validatex.Error{Codes: []string{"ERR_INVALID_DATE"}}
	}
	return day, nil
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}
