package handler

import (
	"net/http"

	"github.com/hartetoti/backend/internal/render"
	"github.com/hartetoti/backend/internal/service"
)

type createQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Level    string `json:"level" validate:"required"`
}

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	err := decodeAndValidate(w, r, &req)
	if err != nil {
		render.Error(w, http.StatusBadRequest, "Please provide a question and level")
		return
	}

	question, err := h.questionService.Create(r.Context(), req.Question, req.Level)
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusCreated, "Question created", question)
}

func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.List(r.Context())
	if err != nil {
		fail(w, r, err, http.StatusBadRequest)
		return
	}

	render.Success(w, http.StatusOK, "", questions)
}
