// Package logger provides a context-aware wrapper around log/slog with
// functional options and attribute helpers that keep key names consistent.
//
// New builds a *slog.Logger from Option values:
//
//   - WithDevelopment / WithProduction: text at debug level or JSON at info level
//   - WithFormat / WithTextFormatter / WithJSONFormatter: output format
//   - WithLevel / WithLevelName: minimum level
//   - WithOutput: destination writer
//   - WithAttr: static attributes
//   - WithContextExtractors / WithContextValue: attributes read from the context
//     of every record
//
// The handler is wrapped with LogHandlerDecorator, which runs the registered
// ContextExtractor callbacks on each Handle call.
//
// Attribute helpers (Field, Rule, FormID, Error, Duration, ...) produce the
// attributes the form engine logs with:
//
//	log.Warn("unknown validation rule", logger.Field("email"), logger.Rule("emial"))
//
// Error and Errors return an empty Attr for nil errors, so they can be passed
// without a nil check.
//
// Libraries in this module accept a *slog.Logger and default to Discard.
package logger
