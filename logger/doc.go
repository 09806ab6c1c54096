// Package logger provides structured logging for the sandbox SDK and CLI
// using zerolog.
//
// The SDK itself never logs. A logger is only consulted when the caller
// installs httpclient.Logging on a client, or from the sandbox CLI.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&logger.Config{Level: "debug"}, "sandbox").WithComponent("http")
//	log.Info("request sent", logger.Fields("path", "/health"))
package logger
