package service

import (
	"context"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"filetag-go/internal/models"
	"filetag-go/internal/repository"
	"filetag-go/internal/utils"
)

// ConnectResult 钱包连接结果
type ConnectResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	User        *models.User
}

// IdentityService 钱包身份服务
type IdentityService struct {
	store      *repository.Store
	jwtManager *utils.JWTManager
	logger     *logrus.Logger
}

// NewIdentityService 创建身份服务
func NewIdentityService(store *repository.Store, jwtManager *utils.JWTManager, logger *logrus.Logger) *IdentityService {
	return &IdentityService{
		store:      store,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Resolve 根据钱包地址获取用户，不存在时创建
// 并发创建时败者会收到唯一约束冲突，此时重新查询并返回胜者的记录
func (s *IdentityService) Resolve(ctx context.Context, address string) (*models.User, error) {
	address = utils.NormalizeWalletAddress(address)
	if address == "" {
		return nil, ErrWalletRequired
	}

	user, err := s.store.Users.GetByWalletAddress(ctx, address)
	if err == nil {
		return user, nil
	}
	if !repository.IsNotFound(err) {
		return nil, errors.WrapIf(err, "查询用户失败")
	}

	user = &models.User{WalletAddress: address, RewardPoints: 0}
	if err := s.store.Users.Create(ctx, user); err != nil {
		if !repository.IsDuplicateKey(err) {
			return nil, errors.WrapIf(err, "创建用户失败")
		}
		existing, err := s.store.Users.GetByWalletAddress(ctx, address)
		if err != nil {
			return nil, errors.WrapIf(err, "重新查询用户失败")
		}
		return existing, nil
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"wallet_address": address,
	}).Info("新用户已创建")
	return user, nil
}

// Connect 解析钱包用户并签发会话Token
func (s *IdentityService) Connect(ctx context.Context, address string) (*ConnectResult, error) {
	user, err := s.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.WalletAddress)
	if err != nil {
		return nil, errors.WrapIf(err, "生成Token失败")
	}

	return &ConnectResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtManager.ExpireDuration().Seconds()),
		User:        user,
	}, nil
}

// Me 获取当前用户最新信息
func (s *IdentityService) Me(ctx context.Context, session *Session) (*models.User, error) {
	if err := requireSession(session); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, session.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, notFound("用户不存在")
		}
		return nil, errors.WrapIf(err, "查询用户失败")
	}
	return user, nil
}
