package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"survey_backend/internal/survey"
	"survey_backend/internal/validation"
	"survey_backend/pkg/cache"
	"survey_backend/pkg/lock"
	"survey_backend/pkg/logger"
	"survey_backend/pkg/monitoring"
)

// Options tunes caching and locking for the survey services.
type Options struct {
	SurveyTTL   time.Duration
	ResponseTTL time.Duration
	LockTTL     time.Duration
	LockWait    time.Duration
}

func DefaultOptions() Options {
	return Options{
		SurveyTTL:   10 * time.Minute,
		ResponseTTL: time.Hour,
		LockTTL:     30 * time.Second,
		LockWait:    5 * time.Second,
	}
}

var validate = validation.New()

func checkShape(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		return survey.Invalidf("%s", validation.Message(err))
	}
	return nil
}

func surveyKey(id string) string   { return "survey:" + id }
func responseKey(id string) string { return "response:" + id }

// withSurveyLock runs fn while holding the per-survey lock, so a first
// response and an update or delete of the same survey never interleave.
func withSurveyLock(ctx context.Context, l lock.Locker, opts Options, surveyID string, failure string, fn func() error) error {
	waitCtx, cancel := context.WithTimeout(ctx, opts.LockWait)
	defer cancel()
	release, err := l.Acquire(waitCtx, surveyKey(surveyID), opts.LockTTL)
	if err != nil {
		return survey.Internal(failure, err)
	}
	defer release()
	return fn()
}

// storageError keeps survey errors as they are, maps a missing row to
// NotFound and wraps everything else as Internal.
func storageError(err error, notFound, failure string) error {
	if err == nil {
		return nil
	}
	var se *survey.Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return survey.NotFound(notFound)
	}
	return survey.Internal(failure, err)
}

func cacheGet(ctx context.Context, c cache.Cache, name, key string, dst interface{}) bool {
	hit, err := c.GetJSON(ctx, key, dst)
	switch {
	case err != nil:
		monitoring.CacheLookups.WithLabelValues(name, "error").Inc()
		logger.Log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return false
	case hit:
		monitoring.CacheLookups.WithLabelValues(name, "hit").Inc()
	default:
		monitoring.CacheLookups.WithLabelValues(name, "miss").Inc()
	}
	return hit
}

func cacheSet(ctx context.Context, c cache.Cache, key string, v interface{}, ttl time.Duration) {
	if err := c.SetJSON(ctx, key, v, ttl); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func cacheDelete(ctx context.Context, c cache.Cache, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Log.Warn("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
