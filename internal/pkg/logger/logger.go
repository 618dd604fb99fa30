// Package logger carries a request-scoped logrus entry through context.Context.
package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

func WithEntry(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// FromContext never returns nil; without a stored entry it falls back to the standard logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok && entry != nil {
		return entry
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
