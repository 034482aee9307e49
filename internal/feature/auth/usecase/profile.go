package usecase

import (
	"context"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// UpdateAvatar stores the URL of an uploaded avatar and drops the cached identity
// so the next request sees it.
func (u *authUsecase) UpdateAvatar(ctx context.Context, email, avatarURL string) (*entity.Identity, error) {
	user, err := u.users.UpdateAvatar(ctx, email, avatarURL)
	if err != nil {
		return nil, err
	}
	u.cache.Invalidate(ctx, email)
	return user.Identity(), nil
}
