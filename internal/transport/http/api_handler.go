package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"brainrot-quiz-service/internal/app"
	"brainrot-quiz-service/internal/audio"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIHandler serves the REST endpoints around the game: gallery, guestbook, rankings,
// fortune and pronunciation audio.
type APIHandler struct {
	social  *app.SocialService
	board   *app.Leaderboard
	fortune *app.FortuneService
	audio   *audio.Resolver
	log     *zap.Logger
}

func NewAPIHandler(social *app.SocialService, board *app.Leaderboard, fortune *app.FortuneService, resolver *audio.Resolver, log *zap.Logger) *APIHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIHandler{social: social, board: board, fortune: fortune, audio: resolver, log: log}
}

func (h *APIHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	items, err := h.social.Gallery(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *APIHandler) LikeCharacter(w http.ResponseWriter, r *http.Request) {
	likes, err := h.social.Like(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"likes": likes})
}

func (h *APIHandler) CharacterAudio(w http.ResponseWriter, r *http.Request) {
	c, err := h.social.Character(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	clip, err := h.audio.Resolve(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", clip.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(clip.Data)))
	w.Header().Set("X-Audio-Source", clip.Source)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(clip.Data)
}

func (h *APIHandler) Guestbook(w http.ResponseWriter, r *http.Request) {
	entries, err := h.social.Guestbook(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *APIHandler) SignGuestbook(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid json"})
		return
	}
	entry, err := h.social.Sign(r.Context(), input.Name, input.Message)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *APIHandler) LikeGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	likes, err := h.social.LikeEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"likes": likes})
}

func (h *APIHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, err := h.board.Top(r.Context(), app.ParseWindow(r.URL.Query().Get("window")), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *APIHandler) PullFortune(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "invalid json"})
		return
	}
	fortune, err := h.fortune.Pull(r.Context(), input.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fortune)
}

func (h *APIHandler) FortuneRemaining(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "missing userId"})
		return
	}
	remaining, err := h.fortune.Remaining(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remaining": remaining})
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, err)
}
