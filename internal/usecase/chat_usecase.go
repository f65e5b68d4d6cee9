package usecase

import (
	"context"
	"errors"
	"time"

	"colonoscopy-scheduler/internal/converter"
	"colonoscopy-scheduler/internal/delivery/dto"
	"colonoscopy-scheduler/internal/domain/entity"
	"colonoscopy-scheduler/internal/infrastructure/llm"
	"colonoscopy-scheduler/internal/infrastructure/metrics"
	"colonoscopy-scheduler/internal/service"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidAppointmentDate = errors.New("invalid appointment date, use YYYY-MM-DD or RFC 3339")
	ErrUpstreamCredentials    = errors.New("completion service rejected credentials")
	ErrUpstreamRateLimited    = errors.New("completion service rate limited")
	ErrUpstreamQuota          = errors.New("completion service quota exhausted")
	ErrUpstreamFailed         = errors.New("completion service failed")
)

// User-facing replies for failed chat turns.
const (
	MessageCredentialError = "API configuration error. Please contact support."
	MessageRateLimitError  = "Too many requests. Please wait a moment and try again."
	MessageQuotaError      = "Service temporarily unavailable. Please try again later."
	MessageGenericError    = "Sorry, I had trouble processing that. Please try again."
)

type ChatUsecase interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type chatUsecase struct {
	log       *logrus.Logger
	completer llm.Completer
	rules     entity.SchedulingRules
	now       func() time.Time
}

func NewChatUsecase(log *logrus.Logger, completer llm.Completer, rules entity.SchedulingRules) ChatUsecase {
	return &chatUsecase{
		log:       log,
		completer: completer,
		rules:     rules,
		now:       time.Now,
	}
}

func (u *chatUsecase) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	candidates, err := converter.AppointmentsFromDTOs(req.Context.AvailableDates)
	if err != nil {
		u.log.Warnf("Rejected available dates: %+v", err)
		return nil, ErrInvalidAppointmentDate
	}

	state, err := converter.ConversationStateFromDTO(&req.Context)
	if err != nil {
		u.log.Warnf("Rejected selected date: %+v", err)
		return nil, ErrInvalidAppointmentDate
	}

	filtered := service.FilterAppointments(u.rules, req.Message, candidates)

	u.log.WithFields(logrus.Fields{
		"current_step": state.CurrentStep,
		"candidates":   len(candidates),
		"filtered":     len(filtered),
		"info_missing": state.PatientInfo.Missing(),
	}).Info("Received chat message")
	u.log.Debugf("Chat message: %s", req.Message)

	now := u.now()
	prompt := service.BuildSystemPrompt(u.rules, filtered, state, now)

	started := time.Now()
	reply, err := u.completer.Complete(ctx, prompt, req.Message)
	metrics.CompletionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		u.log.Errorf("Completion request failed: %+v", err)
		return nil, translateCompletionError(err)
	}

	u.log.Debugf("Completion reply: %s", reply)

	show, attached := service.ClassifyReply(u.rules, reply, filtered)
	if show {
		metrics.AppointmentsAttached.Inc()
	}

	return &dto.ChatResponse{
		Response:         reply,
		Success:          true,
		Timestamp:        u.now().UTC(),
		ShowAppointments: show,
		FilteredDates:    converter.AppointmentsToDTOs(attached),
	}, nil
}

func translateCompletionError(err error) error {
	switch {
	case errors.Is(err, llm.ErrInvalidCredentials):
		return ErrUpstreamCredentials
	case errors.Is(err, llm.ErrRateLimited):
		return ErrUpstreamRateLimited
	case errors.Is(err, llm.ErrQuotaExceeded):
		return ErrUpstreamQuota
	default:
		return ErrUpstreamFailed
	}
}

// UserMessage returns the text shown to the patient when a chat turn fails.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamCredentials):
		return MessageCredentialError
	case errors.Is(err, ErrUpstreamRateLimited):
		return MessageRateLimitError
	case errors.Is(err, ErrUpstreamQuota):
		return MessageQuotaError
	default:
		return MessageGenericError
	}
}

// Outcome returns the metrics label for the result of a chat turn.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInvalidAppointmentDate):
		return metrics.OutcomeInvalidRequest
	case errors.Is(err, ErrUpstreamCredentials):
		return metrics.OutcomeCredential
	case errors.Is(err, ErrUpstreamRateLimited):
		return metrics.OutcomeRateLimit
	case errors.Is(err, ErrUpstreamQuota):
		return metrics.OutcomeQuota
	default:
		return metrics.OutcomeUpstream
	}
}
