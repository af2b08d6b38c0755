// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The single factory – New – creates a *slog.Logger configured by a set of
// Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     a context value (for example a correlation id) on every Handle call.
//
// Helper constructors such as OrgID, UserID, Provider, and Error live in
// attr.go and return commonly-used slog.Attr instances to keep attribute
// naming consistent across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithProduction("notification-service"),
//	    logger.WithContextValue("correlation_id", ctxKeyCorrelationID),
//	)
//	logger.SetAsDefault(log)
package logger
