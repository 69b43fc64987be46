package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"contacts_project/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const idempotencyTTL = 24 * time.Hour

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// responseBuffer tees the response body so a successful mutation can be
// replayed for a repeated Idempotency-Key.
type responseBuffer struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	buf         bytes.Buffer
}

func (rb *responseBuffer) WriteHeader(code int) {
	if rb.wroteHeader {
		return
	}
	rb.status = code
	rb.wroteHeader = true
	rb.ResponseWriter.WriteHeader(code)
}

func (rb *responseBuffer) Write(b []byte) (int, error) {
	if !rb.wroteHeader {
		rb.status = http.StatusOK
		rb.wroteHeader = true
	}
	rb.buf.Write(b)
	return rb.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// mutating requests. Only 2xx responses are stored.
func Idempotency(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" || r.Method == http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}
			redisKey := "idempotency:" + key

			if data, err := client.Get(r.Context(), redisKey).Bytes(); err == nil {
				var cached cachedResponse
				if json.Unmarshal(data, &cached) == nil {
					if l := logger.Logger; l != nil {
						l.Info("returning cached response", zap.String("key", key))
					}
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(cached.Status)
					_, _ = w.Write(cached.Body)
					return
				}
			}

			rec := &responseBuffer{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 200 && rec.status < 300 {
				data, err := json.Marshal(cachedResponse{Status: rec.status, Body: rec.buf.Bytes()})
				if err == nil {
					if err := client.Set(r.Context(), redisKey, data, idempotencyTTL).Err(); err != nil {
						if l := logger.Logger; l != nil {
							l.Error("failed to store idempotent response", zap.String("key", key), zap.Error(err))
						}
					}
				}
			}
		})
	}
}
