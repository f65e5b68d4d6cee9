package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"colonoscopy-scheduler/internal/delivery/dto"
	"colonoscopy-scheduler/internal/infrastructure/metrics"
	"colonoscopy-scheduler/internal/usecase"
	"colonoscopy-scheduler/pkg/response"
	"colonoscopy-scheduler/pkg/validator"
)

// MaxRequestBodyBytes bounds the chat payload, which carries the full list
// of open appointments.
const MaxRequestBodyBytes = 10 << 20

const MessageInvalidDate = "Invalid appointment date format, use YYYY-MM-DD or RFC 3339"

type ChatHandler struct {
	chatUsecase usecase.ChatUsecase
	validator   *validator.CustomValidator
}

func NewChatHandler(chatUsecase usecase.ChatUsecase, validator *validator.CustomValidator) *ChatHandler {
	return &ChatHandler{
		chatUsecase: chatUsecase,
		validator:   validator,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)

	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeInvalidRequest).Inc()
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
			return
		}
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		metrics.ChatRequests.WithLabelValues(metrics.OutcomeInvalidRequest).Inc()
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	resp, err := h.chatUsecase.Chat(r.Context(), &req)
	metrics.ChatRequests.WithLabelValues(usecase.Outcome(err)).Inc()
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidAppointmentDate):
			response.BadRequest(w, MessageInvalidDate)
		default:
			response.InternalServerError(w, usecase.UserMessage(err))
		}
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
