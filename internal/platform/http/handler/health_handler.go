// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultPingTimeout = 2 * time.Second

// Pinger は依存先への疎通確認を行います。*sql.DB がそのまま満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz 系のエンドポイントを提供します。
type HealthHandler struct {
	db          Pinger
	pingTimeout time.Duration
}

// NewHealthHandler はユーザーディレクトリの疎通確認に使うPingerを受け取ります。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, pingTimeout: defaultPingTimeout}
}

// Live はプロセスが応答できるかだけを返します。依存先には触れません。
// OPTIONSには204、HEADには本文なしの200を返します。
func (h *HealthHandler) Live(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}
	h.respond(c, http.StatusOK, "ok")
}

// Ready はユーザーディレクトリに到達できる場合だけ200を返し、それ以外は503です。
// Redisはキャッシュなしでも動作するため対象外です。
func (h *HealthHandler) Ready(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		slog.Warn("readiness check failed", "error", err)
		h.respond(c, http.StatusServiceUnavailable, "unavailable")
		return
	}
	h.respond(c, http.StatusOK, "ok")
}

func (h *HealthHandler) respond(c *gin.Context, code int, status string) {
	if c.Request.Method == http.MethodHead {
		c.Status(code)
		return
	}
	c.JSON(code, gin.H{"status": status})
}

// Welcome はルートパスの案内メッセージを返します。
func Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Contacts API!"})
}
