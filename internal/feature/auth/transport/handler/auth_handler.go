// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
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
)

const (
	msgInternalError    = "internal server error"
	msgConfirmationSent = "If the account exists and is not confirmed, a confirmation email has been sent"
	msgResetSent        = "If an account with that email exists, a password reset link has been sent"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は未確認のユーザーを登録し、確認メールを送ります。
	Signup(ctx context.Context, email, password string) (*entity.Identity, error)
	// Login はユーザーを認証し、アクセストークンとリフレッシュトークンを返します。
	Login(ctx context.Context, email, password string) (*entity.TokenPair, error)
	// Refresh はリフレッシュトークンを新しいトークンペアと交換します。
	Refresh(ctx context.Context, refreshToken string) (*entity.TokenPair, error)
	ConfirmEmail(ctx context.Context, token string) (usecase.ConfirmationStatus, error)
	RequestEmailConfirmation(ctx context.Context, email string)
	RequestPasswordReset(ctx context.Context, email string)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は作成したユーザーと201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	identity, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		slog.Warn("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: "User with this email already exists"})
		return
	case errors.Is(err, usecase.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	default:
		slog.Error("signup failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
		return
	}
	slog.Info("user signup successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(identity))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時・メール未確認時は401を返却
// - 認証成功時はトークンペア付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, usecase.ErrInvalidCredentials):
		// ユーザー列挙攻撃を防止するため、どちらが誤りかは公開しない
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		unauthorized(c, "Incorrect email or password")
		return
	case errors.Is(err, usecase.ErrEmailNotConfirmed):
		slog.Warn("login rejected", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		unauthorized(c, "Email not confirmed")
		return
	default:
		slog.Error("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
		return
	}
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewTokenRes(pair))
}

// Refresh はリフレッシュトークンを新しいトークンペアと交換します。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	pair, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			slog.Warn("token refresh failed", "error", err, "remote_addr", c.ClientIP())
			unauthorized(c, "Invalid refresh token")
			return
		}
		slog.Error("token refresh failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
		return
	}
	c.JSON(http.StatusOK, dto.NewTokenRes(pair))
}

// ConfirmEmail はメール内の確認リンクを処理します。
func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	status, err := h.auth.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		if errors.Is(err, usecase.ErrVerificationFailed) {
			slog.Warn("email confirmation failed", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Verification error"})
			return
		}
		slog.Error("email confirmation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
		return
	}
	if status == usecase.ConfirmationAlreadyConfirmed {
		c.JSON(http.StatusOK, dto.MessageRes{Message: "Your email is already confirmed"})
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "Email confirmed"})
}

// RequestEmail は確認メールを再送します。登録の有無にかかわらず同じレスポンスを返します。
func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	h.auth.RequestEmailConfirmation(c.Request.Context(), req.Email)
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: msgConfirmationSent})
}

// ForgotPassword はパスワード再設定メールを要求します。
// 登録の有無にかかわらずレスポンスはバイト単位で同一です。
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.EmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	h.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: msgResetSent})
}

// ResetPassword は再設定トークンで新しいパスワードを設定します。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
		return
	}
	err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MessageRes{Message: "Password has been reset"})
	case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "Invalid or expired token"})
	case errors.Is(err, usecase.ErrInvalidPassword):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "User not found"})
	default:
		slog.Error("password reset failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgInternalError})
	}
}

// unauthorized は401とWWW-Authenticateヘッダーを返します。
func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msg})
}
