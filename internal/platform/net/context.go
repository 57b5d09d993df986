// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyGroupID  ctxKey = "group_id"
	keySenderID ctxKey = "sender_id"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, groupID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if groupID != "" {
		ctx = context.WithValue(ctx, keyGroupID, groupID)
	}
	return ctx
}

// WithSender annotates context with the telegram sender id under check
func WithSender(ctx context.Context, senderID string) context.Context {
	if senderID != "" {
		ctx = context.WithValue(ctx, keySenderID, senderID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// GroupID returns the telegram group id on the context if present
func GroupID(ctx context.Context) string {
	if v, ok := ctx.Value(keyGroupID).(string); ok {
		return v
	}
	return ""
}

// SenderID returns the telegram sender id on the context if present
func SenderID(ctx context.Context) string {
	if v, ok := ctx.Value(keySenderID).(string); ok {
		return v
	}
	return ""
}
