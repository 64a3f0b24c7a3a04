// Package middleware provides HTTP middleware for the API server:
// panic recovery, request ID propagation, and structured request logging.
//
// Middleware compose outermost-first:
//
//	handler = middleware.Recovery(logger)(handler)
//	handler = middleware.RequestID(handler)
//	handler = middleware.Logging(logger)(handler)
package middleware
