package dto

import (
	"time"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// TokenRes はログインとリフレッシュ成功時のレスポンスです。
type TokenRes struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresIn はアクセストークンの有効期間(秒)です。
	ExpiresIn int64 `json:"expires_in"`
}

// NewTokenRes はTokenPairからレスポンスを作成します。
func NewTokenRes(p *entity.TokenPair) TokenRes {
	return TokenRes{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(p.ExpiresIn / time.Second),
	}
}

// UserRes はユーザー情報のレスポンスです。パスワードハッシュは含みません。
type UserRes struct {
	ID        uint    `json:"id"`
	Email     string  `json:"email"`
	Confirmed bool    `json:"confirmed"`
	AvatarURL *string `json:"avatar_url"`
}

// NewUserRes はIdentityからレスポンスを作成します。
func NewUserRes(id *entity.Identity) UserRes {
	return UserRes{ID: id.ID, Email: id.Email, Confirmed: id.Confirmed, AvatarURL: id.AvatarURL}
}

type MessageRes struct {
	Message string `json:"message"`
}

type ErrorRes struct {
	Error string `json:"error"`
}
