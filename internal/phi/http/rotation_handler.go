package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clearcove/phicrypt/internal/httputil"
	phiDomain "github.com/clearcove/phicrypt/internal/phi/domain"
	"github.com/clearcove/phicrypt/internal/phi/http/dto"
	phiUseCase "github.com/clearcove/phicrypt/internal/phi/usecase"
	customValidation "github.com/clearcove/phicrypt/internal/validation"
)

// RotationHandler handles HTTP requests for key rotation runs and the
// rotation audit history.
type RotationHandler struct {
	rotationUseCase phiUseCase.RotationUseCase
	logger          *slog.Logger
}

// NewRotationHandler creates a new rotation handler with required dependencies.
func NewRotationHandler(
	useCase phiUseCase.RotationUseCase,
	logger *slog.Logger,
) *RotationHandler {
	return &RotationHandler{
		rotationUseCase: useCase,
		logger:          logger,
	}
}

// RotateHandler runs a full key rotation across all registered entity classes.
// POST /v1/phi/rotations
// Returns 200 OK with the audit record and per-run counters. Validation
// failures return 422 before any stored data is touched.
func (h *RotationHandler) RotateHandler(c *gin.Context) {
	var req dto.RotateKeysRequest

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

	input := &phiDomain.RotationInput{
		OldKeyHex: req.OldKey,
		NewKeyHex: req.NewKey,
		Reason:    req.Reason,
		BatchSize: req.BatchSize,
	}
	result, err := h.rotationUseCase.Rotate(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRotateKeysResponse(result))
}

// GetRotationHandler returns a single rotation audit record.
// GET /v1/phi/rotations/:id
func (h *RotationHandler) GetRotationHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid rotation id: %w", err), h.logger)
		return
	}

	record, err := h.rotationUseCase.GetRotation(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRotationRecordResponse(record))
}

// ListRotationsHandler returns the most recent rotation audit records.
// GET /v1/phi/rotations?limit=20
func (h *RotationHandler) ListRotationsHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	records, err := h.rotationUseCase.ListRotations(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapListRotationsResponse(records))
}
