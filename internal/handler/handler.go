// Package handler is the HTTP layer. It turns echo requests into dispatcher
// calls and writes the results back as JSON.
package handler
