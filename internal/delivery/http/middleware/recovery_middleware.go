package middleware

import (
	"net/http"

	"colonoscopy-scheduler/pkg/response"

	"github.com/sirupsen/logrus"
)

type RecoveryMiddleware struct {
	log *logrus.Logger
}

func NewRecoveryMiddleware(log *logrus.Logger) *RecoveryMiddleware {
	return &RecoveryMiddleware{log: log}
}

func (m *RecoveryMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID, _ := GetRequestIDFromContext(r.Context())
				m.log.WithField("request_id", requestID).Errorf("Unhandled error: %v", rec)
				response.InternalServerError(w, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
