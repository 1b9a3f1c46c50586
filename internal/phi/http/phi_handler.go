// Package http provides HTTP handlers for PHI field protection and key rotation.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearcove/phicrypt/internal/httputil"
	"github.com/clearcove/phicrypt/internal/phi/http/dto"
	phiUseCase "github.com/clearcove/phicrypt/internal/phi/usecase"
	customValidation "github.com/clearcove/phicrypt/internal/validation"
)

// PHIHandler handles HTTP requests for field-level encryption operations.
// Plaintext values pass through this handler but are never logged.
type PHIHandler struct {
	phiUseCase phiUseCase.PHIUseCase
	logger     *slog.Logger
}

// NewPHIHandler creates a new PHI handler with required dependencies.
func NewPHIHandler(
	useCase phiUseCase.PHIUseCase,
	logger *slog.Logger,
) *PHIHandler {
	return &PHIHandler{
		phiUseCase: useCase,
		logger:     logger,
	}
}

// EncryptHandler encrypts a field value with the active key.
// POST /v1/phi/encrypt
// Returns 200 OK with a versioned ciphertext envelope. Blank plaintext
// returns a blank envelope.
func (h *PHIHandler) EncryptHandler(c *gin.Context) {
	var req dto.EncryptRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	envelope, err := h.phiUseCase.Encrypt(c.Request.Context(), req.Plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptResponse{Ciphertext: envelope})
}

// DecryptHandler decrypts a ciphertext envelope with the active key.
// POST /v1/phi/decrypt
// Returns 200 OK with the plaintext. Blank ciphertext returns a blank
// plaintext.
func (h *PHIHandler) DecryptHandler(c *gin.Context) {
	var req dto.DecryptRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	plaintext, err := h.phiUseCase.Decrypt(c.Request.Context(), req.Ciphertext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext})
}

// SearchHashHandler computes the deterministic hash used for equality search
// over encrypted columns.
// POST /v1/phi/search-hash
// Returns 200 OK with the hash. Blank input returns a blank hash.
func (h *PHIHandler) SearchHashHandler(c *gin.Context) {
	var req dto.SearchHashRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	// Call use case
	hash, err := h.phiUseCase.SearchHash(c.Request.Context(), req.Value)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SearchHashResponse{SearchHash: hash})
}
