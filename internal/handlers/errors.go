// Package handlers exposes the REST surface. Handlers decode and bind
// requests, delegate to the services, and translate domain errors to
// HTTP status codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/settleroom/settleroom/internal/auth"
	"github.com/settleroom/settleroom/internal/ledger"
)

// writeError maps a domain error to its HTTP status and writes the
// JSON error body. Unclassified errors become 500 with a generic
// message so internals never leak to clients.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, ledger.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrUnauthorized):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, ledger.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, ledger.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, auth.ErrWeakPassword):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, auth.ErrEmailExists):
		status, message = http.StatusConflict, err.Error()
	}

	c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

// badRequest writes a 400 for malformed request bodies.
func badRequest(c *gin.Context, err error) {
	c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
