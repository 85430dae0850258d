package repository

import (
	"context"
	"strings"

	"emperror.dev/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Store 聚合全部Repository，事务内使用同一个连接
type Store struct {
	db *gorm.DB

	Users    *UserRepository
	Files    *FileRepository
	Tags     *TagRepository
	Votes    *VoteRepository
	Comments *CommentRepository
	Reports  *ReportRepository
	Points   *PointEventRepository
}

// NewStore 创建Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewUserRepository(db),
		Files:    NewFileRepository(db),
		Tags:     NewTagRepository(db),
		Votes:    NewVoteRepository(db),
		Comments: NewCommentRepository(db),
		Reports:  NewReportRepository(db),
		Points:   NewPointEventRepository(db),
	}
}

// Transaction 在事务中执行 fn，fn 返回错误时回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// IsNotFound 是否为记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateKey 是否为唯一约束冲突
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// likePattern 构造大小写无关的 LIKE 子串模式
func likePattern(q string) string {
	q = strings.ToLower(q)
	q = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(q)
	return "%" + q + "%"
}
