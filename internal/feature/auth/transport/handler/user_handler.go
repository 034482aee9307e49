package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"contacts_backend/internal/feature/auth/domain/entity"
	"contacts_backend/internal/feature/auth/transport/http/dto"
	"contacts_backend/internal/feature/auth/usecase"
	jwtmw "contacts_backend/internal/platform/jwt"
)

// ProfileUsecase は認証済みユーザーのプロフィール操作です。
type ProfileUsecase interface {
	UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.Identity, error)
}

// UserHandler は/api/users配下のリクエストを処理します。
// どのルートもjwtmw.AuthRequiredの後ろで動く前提です。
type UserHandler struct {
	profile ProfileUsecase
}

func NewUserHandler(profile ProfileUsecase) *UserHandler {
	return &UserHandler{profile: profile}
}

// Me は現在のユーザーを返します。
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := jwtmw.CurrentIdentity(c)
	if !ok {
		unauthorized(c, "Could not validate credentials")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(identity))
}

// UpdateAvatar は画像ホストにアップロード済みのアバターURLを保存します。
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	identity, ok := jwtmw.CurrentIdentity(c)
	if !ok {
		unauthorized(c, "Could not validate credentials")
		return
	}
	var req dto.AvatarReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	updated, err := h.profile.UpdateAvatar(c.Request.Context(), identity.Email, req.AvatarURL)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "User not found"})
			return
		}
		slog.Error("avatar update failed", "error", err, "email", identity.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
		return
	}
	slog.Info("avatar updated", "email", identity.Email)
	c.JSON(http.StatusOK, dto.NewUserRes(updated))
}
