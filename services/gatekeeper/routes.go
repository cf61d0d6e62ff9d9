// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gatekeeper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/AleutianAI/gatekeeper/services/gatekeeper/config"
	"github.com/AleutianAI/gatekeeper/services/gatekeeper/registry"
)

// RegisterRoutes mounts the gatekeeper HTTP surface on a gin engine.
//
// Routes:
//   - POST /v1/gatekeeper/validate            run the pipeline on a task
//   - GET  /v1/gatekeeper/validators          list the validator catalog
//   - PUT  /v1/gatekeeper/validators/:code/toggle  apply a runtime toggle
//   - GET  /v1/gatekeeper/settings            effective configuration
//   - PUT  /v1/gatekeeper/settings/:key       live configuration override
//   - GET  /healthz                           liveness probe
//   - GET  /metrics                           Prometheus exposition
func (s *Service) RegisterRoutes(r *gin.Engine) {
	registerBindings()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1/gatekeeper")
	v1.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(50), 100)))

	v1.POST("/validate", s.handleValidate)
	v1.GET("/validators", s.handleListValidators)
	v1.PUT("/validators/:code/toggle", s.handleToggle)
	v1.GET("/settings", s.handleListSettings)
	v1.PUT("/settings/:key", s.handleSetSetting)
}

// rateLimitMiddleware sheds load once the token bucket is drained.
func rateLimitMiddleware(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func (s *Service) handleValidate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	verdict, err := s.Validate(c.Request.Context(), &req)
	if err != nil {
		// Engine defects are server-side failures; the task was never
		// fully evaluated.
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrConfigMissing) || errors.Is(err, config.ErrConfigTypeMismatch) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, verdict)
}

func (s *Service) handleListValidators(c *gin.Context) {
	entries := s.Validators()
	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"code":          e.Metadata.Code,
			"display_name":  e.Metadata.DisplayName,
			"description":   e.Metadata.Description,
			"category":      e.Metadata.Category,
			"gate":          e.Metadata.Gate,
			"order":         e.Metadata.Order,
			"is_hard_block": e.Metadata.IsHardBlock,
			"enabled":       e.Enabled(),
			"fail_mode":     e.FailModeOverride(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"validators": out})
}

func (s *Service) handleToggle(c *gin.Context) {
	var payload TogglePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	code := c.Param("code")
	if err := s.SetToggle(code, payload); err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "enabled": payload.Enabled, "fail_mode": payload.FailMode})
}

func (s *Service) handleListSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": s.Settings()})
}

func (s *Service) handleSetSetting(c *gin.Context) {
	var payload SettingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	key := c.Param("key")
	if err := s.SetSetting(key, payload.Value); err != nil {
		if errors.Is(err, config.ErrConfigMissing) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": payload.Value})
}
