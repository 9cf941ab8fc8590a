// Package logger wraps zap for the kiosk binaries:
//   - a global sugared logger with a console encoder and an atomic level,
//   - a pluggable sink so the TUI can keep stdout clean and log to a file,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - leveled convenience functions (Infof, InfoKV, ErrorKV, etc.).
//
// Components receive a context and pull the logger from it, so every
// record written during a panel visit carries the visit's session id.
package logger
