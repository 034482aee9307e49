// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SignupReq は/api/auth/registerのリクエストボディです。
type SignupReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginReq は/api/auth/loginのリクエストボディです。
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshReq represents the request for token refresh.
type RefreshReq struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// EmailReq はメールアドレスだけを受け取るエンドポイント
// (/api/auth/request_email, /api/auth/forgot_password) のリクエストボディです。
type EmailReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq は/api/auth/reset_passwordのリクエストボディです。
type ResetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// AvatarReq is the body of PATCH /api/users/avatar.
type AvatarReq struct {
	AvatarURL string `json:"avatar_url" binding:"required,url,max=255"`
}
