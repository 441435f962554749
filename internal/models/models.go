package models

import "time"

// Customer represents an immutable member of the customer pool. Derived
// per-day attributes (order counts, first-seen dates) live in the daily
// snapshot, never here.
type Customer struct {
	ID             int64
	OpenID         string
	Sex            int
	Age            int
	LTVTier        string
	CityTier       int
	Region         string
	FixedRandomNum int
}

// Item represents an immutable member of the item pool. Effective price,
// discount flag and eligibility are recomputed every day and never written
// back.
type Item struct {
	ID        int64
	Category  string
	BasePrice int64
	CostPrice int64
	Rating    int
	Origin    string
}

// Order references one customer and one item. It is created during a day's
// order generation and may be mutated exactly once afterward by coupon
// application.
type Order struct {
	ID              int64
	CustomerID      int64
	ItemID          int64
	Channel         string
	OriginalPrice   int64
	DiscountedPrice int64
	ActualAmount    float64
	CouponDiscount  float64
	IsCouponUsed    string
	CouponID        string
	CouponType      string
	IsDiscounted    bool
	DiscountRate    float64
	Date            time.Time
}

// BehaviorEvent is one app event inside a customer session.
type BehaviorEvent struct {
	BizNo      int64
	OpenID     string
	SessionID  string
	AppPage    string
	ActionType string
	TimeSpent  int // milliseconds
	DeviceType string
	Location   string
	ActionTime time.Time
	IPCity     string
	PageValue  string
	Date       time.Time
}

// CustomerSnapshot is one row of the daily full customer table.
type CustomerSnapshot struct {
	CustomerID     int64
	OpenID         string
	OrdersCnt      int
	Sex            int
	Age            int
	LTVTier        string
	OpenDate       time.Time
	LastVisitDate  time.Time
	CityTier       int
	Region         string
	FixedRandomNum int
	Date           time.Time
}

// Coupon is issued once and transitions to used or expired, whichever
// happens first. Once used it is terminal.
type Coupon struct {
	ID             string
	CustomerID     int64
	Status         string
	IssueDate      time.Time
	ExpireDate     time.Time
	DiscountAmount float64 // multiplicative rate for discount type, absolute amount for cash
	Type           string
	UsedDate       time.Time
	UsedOrderID    int64
}

// CouponState is a coupon's status as of one simulated day.
type CouponState struct {
	Coupon Coupon
	Date   time.Time
}

// ItemSnapshot is one row of the daily item table.
type ItemSnapshot struct {
	ItemID       int64
	Category     string
	IsEligible   string
	Price        int64
	CostPrice    int64
	IsDiscounted bool
	DiscountRate float64
	Rating       int
	Origin       string
	Date         time.Time
}

// Message is a promotional send record, created and finalized in one step.
type Message struct {
	ID         int64
	CustomerID int64
	Channel    string
	IsSuccess  string
	Date       time.Time
}

// Dataset accumulates the six output tables over the full run.
type Dataset struct {
	Orders    []Order
	Behaviors []BehaviorEvent
	Customers []CustomerSnapshot
	Items     []ItemSnapshot
	Messages  []Message
	Coupons   []CouponState
}

// Coupon statuses
const (
	CouponStatusAvailable = "available"
	CouponStatusUsed      = "used"
	CouponStatusExpired   = "expired"
)

// Coupon types
const (
	CouponTypeNone     = "none"
	CouponTypeDiscount = "discount"
	CouponTypeCash     = "cash"
)

// Y/N flags used across the output tables
const (
	FlagYes = "Y"
	FlagNo  = "N"
)
