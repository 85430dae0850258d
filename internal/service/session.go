package service

import (
	"context"

	"emperror.dev/errors"

	"filetag-go/internal/repository"
)

// Session 已连接钱包的请求会话，由JWT中间件构造并显式传入服务
type Session struct {
	UserID        uint
	WalletAddress string
}

// requireSession 会话缺失或未绑定用户时返回 ErrWalletRequired
func requireSession(session *Session) error {
	if session == nil || session.UserID == 0 || session.WalletAddress == "" {
		return ErrWalletRequired
	}
	return nil
}

// requireUser 会话中的用户已不存在（如数据库重置后旧Token）时返回 ErrNotFound
func requireUser(ctx context.Context, store *repository.Store, session *Session) error {
	if _, err := store.Users.GetByID(ctx, session.UserID); err != nil {
		if repository.IsNotFound(err) {
			return notFound("用户不存在")
		}
		return errors.WrapIf(err, "查询用户失败")
	}
	return nil
}
