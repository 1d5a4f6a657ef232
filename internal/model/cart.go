package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrAmbiguousIdentity = errors.New("identity must carry exactly one of user id or session key")

// Identity 购物车归属：已登录用户或匿名会话，二者互斥
type Identity struct {
	UserID     *uint
	SessionKey string
}

// UserIdentity 构造登录用户身份
func UserIdentity(userID uint) Identity { return Identity{UserID: &userID} }

// SessionIdentity 构造匿名会话身份
func SessionIdentity(key string) Identity { return Identity{SessionKey: key} }

func (i Identity) IsUser() bool { return i.UserID != nil }

// Validate 校验身份恰好包含一种归属键
func (i Identity) Validate() error {
	if (i.UserID == nil) == (i.SessionKey == "") {
		return ErrAmbiguousIdentity
	}
	return nil
}

// Cart 购物车；同一身份任意时刻最多一个 active 购物车，由部分唯一索引保证
type Cart struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UserID     *uint      `json:"user_id,omitempty" gorm:"index;uniqueIndex:ux_carts_active_user,where:is_active"`
	User       *User      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	SessionKey *string    `json:"-" gorm:"type:varchar(64);uniqueIndex:ux_carts_active_session,where:is_active"`
	IsActive   bool       `json:"is_active" gorm:"not null;index"`
	Items      []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Cart) TableName() string { return "carts" }

// Total 计算已加载明细的合计
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].LineTotal())
	}
	return total
}

// CartItem 购物车明细，(cart_id, dish_id) 唯一
type CartItem struct {
	ID       uint  `json:"id" gorm:"primaryKey"`
	CartID   uint  `json:"cart_id" gorm:"not null;uniqueIndex:ux_cart_items_cart_dish"`
	DishID   uint  `json:"dish_id" gorm:"not null;uniqueIndex:ux_cart_items_cart_dish"`
	Dish     *Dish `json:"dish,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity int   `json:"quantity" gorm:"not null;check:chk_cart_items_quantity,quantity >= 1"`
}

func (CartItem) TableName() string { return "cart_items" }

// LineTotal 单价 × 数量；Dish 未加载时为 0
func (i *CartItem) LineTotal() decimal.Decimal {
	if i.Dish == nil {
		return decimal.Zero
	}
	return i.Dish.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
