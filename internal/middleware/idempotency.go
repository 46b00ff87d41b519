package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"accessibilityhire/internal/apperr"
	"accessibilityhire/internal/cache"
	"accessibilityhire/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// IdempotencyHeader names the client-chosen request key
	IdempotencyHeader = "Idempotency-Key"
	// ReplayedHeader is set on responses served from the idempotency store
	ReplayedHeader = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
	idempotencyLockTTL      = 30 * time.Second
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
}

// bodyCaptureWriter records the response body for replay while writing it through
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored 2xx response of a request already seen with
// the same Idempotency-Key from the same caller. Concurrent duplicates get
// 409 while the first one runs. Must run after RequireAuth.
func Idempotency(store cache.Cache, ttl time.Duration, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithError(c, apperr.New(apperr.KindInvalidArgument, apperr.CodeRequestInvalid, "Idempotency-Key is too long"))
			return
		}
		caller, ok := session.CallerFrom(c.Request.Context())
		if !ok {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		storeKey := "idem:" + caller.UserID.Hex() + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
		if replay(c, store, storeKey) {
			return
		}

		unlock, err := store.Lock(ctx, storeKey, idempotencyLockTTL)
		if errors.Is(err, cache.ErrLocked) {
			abortWithError(c, apperr.New(apperr.KindAlreadyExists, apperr.CodeIdempotencyInProgress,
				"A request with this Idempotency-Key is already in progress"))
			return
		}
		if err != nil {
			log.WithError(err).Warn("idempotency lock unavailable, processing without it")
			c.Next()
			return
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				log.WithError(err).Warn("idempotency unlock failed")
			}
		}()

		// the first request may have finished between the lookup and the lock
		if replay(c, store, storeKey) {
			return
		}

		w := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w
		c.Next()

		status := w.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		rec, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		})
		if err == nil {
			err = store.Set(ctx, storeKey, rec, ttl)
		}
		if err != nil {
			log.WithError(err).Warn("failed to store idempotent response")
		}
	}
}

func replay(c *gin.Context, store cache.Cache, key string) bool {
	raw, err := store.Get(c.Request.Context(), key)
	if err != nil {
		return false
	}
	var rec storedResponse
	if err := json.Unmarshal(raw, &rec); err != nil {
		return false
	}
	c.Header(ReplayedHeader, "true")
	c.Data(rec.Status, rec.ContentType, rec.Body)
	c.Abort()
	return true
}
