package repository

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/gin-restaurant/internal/model"
)

// UserRepository 本地用户记录；用户由外部身份服务签发，首次出现时补建
type UserRepository interface {
	// Ensure 幂等地保证 users 中存在该 ID，已存在时不做修改
	Ensure(ctx context.Context, userID uint) error
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Ensure(ctx context.Context, userID uint) error {
	u := model.User{ID: userID, Username: "user-" + strconv.FormatUint(uint64(userID), 10)}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&u).Error
}
