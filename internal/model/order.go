package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// orderTransitions 合法的状态迁移表
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusInProgress, OrderStatusCanceled},
	OrderStatusInProgress: {OrderStatusDelivering, OrderStatusCanceled},
	OrderStatusDelivering: {OrderStatusCompleted},
}

// Valid 是否为已知状态
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusNew, OrderStatusInProgress, OrderStatusDelivering, OrderStatusCompleted, OrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal completed 与 canceled 为终态
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCanceled
}

// CanTransitionTo 判断 s -> next 是否在迁移表中
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses 返回从 s 出发允许的目标状态
func (s OrderStatus) NextStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderTransitions[s]...)
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

func (p PaymentMethod) Valid() bool {
	return p == PaymentCash || p == PaymentOnline
}

// Order 订单模型，创建后明细不可变，状态由员工操作推进
type Order struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	UserID          *uint         `json:"user_id,omitempty" gorm:"index:idx_orders_user_created"`
	User            *User         `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	CustomerName    string        `json:"customer_name" gorm:"type:varchar(150);not null"`
	Phone           string        `json:"phone" gorm:"type:varchar(20);not null"`
	DeliveryAddress string        `json:"delivery_address" gorm:"type:text;not null"`
	PaymentMethod   PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);not null;index"`
	Comment         *string       `json:"comment,omitempty" gorm:"type:text"`
	Items           []OrderItem   `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time     `json:"created_at" gorm:"index:idx_orders_user_created"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// Total 订单金额，按下单时冻结的单价计算
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	return total
}

// OrderItem 订单明细；Price 是下单时的历史单价，不随菜品调价变化
type OrderItem struct {
	ID       uint            `json:"id" gorm:"primaryKey"`
	OrderID  uint            `json:"order_id" gorm:"not null;index"`
	DishID   uint            `json:"dish_id" gorm:"not null;index"`
	Dish     *Dish           `json:"dish,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(8,2);not null"`
	Quantity int             `json:"quantity" gorm:"not null;check:chk_order_items_quantity,quantity >= 1"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
