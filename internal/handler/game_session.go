package handler

import (
	"fmt"
	"net/http"

	"github.com/hartetoti/backend/internal/ctxkeys"
	"github.com/hartetoti/backend/internal/render"
	"github.com/hartetoti/backend/internal/service"
)

type createGameSessionRequest struct {
	GameMode           string `json:"gameMode" validate:"required"`
	SecondsPerQuestion int    `json:"secondsPerQuestion" validate:"required"`
	QuestionCount      int    `json:"questionCount"`
}

type completeGameSessionRequest struct {
	Score             int `json:"score" validate:"gte=0"`
	QuestionsAnswered int `json:"questionsAnswered" validate:"gte=0"`
	CorrectAnswers    int `json:"correctAnswers" validate:"gte=0"`
}

type GameSessionHandler struct {
	gameSessionService *service.GameSessionService
}

func NewGameSessionHandler(gameSessionService *service.GameSessionService) *GameSessionHandler {
	return &GameSessionHandler{
		gameSessionService: gameSessionService,
	}
}

func (h *GameSessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGameSessionRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Missing required game settings")
		return
	}

	session, err := h.gameSessionService.Create(r.Context(), user.ID, req.GameMode, req.SecondsPerQuestion, req.QuestionCount)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Session(w, http.StatusCreated, fmt.Sprintf("Game session created with ID: %s", session.ID), session.ID, session)
}

func (h *GameSessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	view, err := h.gameSessionService.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Session(w, http.StatusOK, fmt.Sprintf("Game session fetched with ID: %s", view.ID), view.ID, view)
}

func (h *GameSessionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	views, err := h.gameSessionService.List(r.Context(), user.ID)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, fmt.Sprintf("Found %d game sessions", len(views)), views)
}

func (h *GameSessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req completeGameSessionRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		if isValidationError(err) {
			render.Error(w, http.StatusBadRequest, "Game results cannot be negative")
			return
		}
		render.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	view, err := h.gameSessionService.Complete(r.Context(), user.ID, r.PathValue("id"), service.GameResult{
		Score:             req.Score,
		QuestionsAnswered: req.QuestionsAnswered,
		CorrectAnswers:    req.CorrectAnswers,
	})
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Session(w, http.StatusOK, "Game session completed", view.ID, view)
}

func (h *GameSessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	view, err := h.gameSessionService.Abandon(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Session(w, http.StatusOK, "Game session abandoned", view.ID, view)
}
