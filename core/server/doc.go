// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for the listener port, the API key guarding
// every route and the request body limit.
package server
