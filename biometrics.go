package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getBiometrics returns all measurements, newest first.
// GET /api/biometrics
func (h *Handler) getBiometrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Biometrics())
}

// createBiometricEntry stores a measurement, replacing any entry on the same
// date. A large weight change returns 409 with the warning until the request
// is resent with confirm=true.
// POST /api/biometrics
func (h *Handler) createBiometricEntry(c *gin.Context) {
	var body biometricRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	entry, award, err := h.svc.AddOrUpdateBiometricEntry(c.Request.Context(), body.BiometricInput, body.Confirm)
	if err != nil {
		serviceError(c, "createBiometricEntry", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry, "award": award})
}

// deleteBiometricEntry handles DELETE /api/biometrics/:id.
func (h *Handler) deleteBiometricEntry(c *gin.Context) {
	if err := h.svc.DeleteBiometricEntry(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, "deleteBiometricEntry", err)
		return
	}
	c.Status(http.StatusNoContent)
}
