// Package context carries request-scoped values between middleware, services and loggers.
package context

type contextKey string
