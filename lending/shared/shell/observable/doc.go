// Package observable decorates command and query handlers with metrics, tracing and logging.
//
// The wrapped handlers stay free of observability code: a CommandWrapper translates the
// HandlerResult and error of a command handler into status labels, spans and log lines,
// and a QueryWrapper does the same for query handlers.
//
// Business rejections (not found, no copies available, ...) are logged at warn level.
// An invariant violation is logged at error level as a fatal condition, since it means
// the lending state is corrupted.
package observable
