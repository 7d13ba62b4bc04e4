package controller

import (
	"time"

	"snapquizzer_backend/internal/service"
	"snapquizzer_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	db             *gorm.DB
	sessionService *service.SessionService
	startedAt      time.Time
}

func NewHealthController(db *gorm.DB, sessionService *service.SessionService) *HealthController {
	return &HealthController{db: db, sessionService: sessionService, startedAt: time.Now()}
}

// Health godoc
// @Summary Service health
// @Tags health
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		dbStatus = "down"
	}

	util.Success(ctx, gin.H{
		"status":          "ok",
		"database":        dbStatus,
		"uptime_seconds":  int(time.Since(c.startedAt).Seconds()),
		"active_sessions": c.sessionService.ActiveSessions(),
	})
}
