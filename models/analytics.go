package models

// Period selects the analytics window.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// AnalyticsSnapshot is the fully derived dashboard aggregate for one
// period. It has no identity of its own; every fetch recomputes it from
// scratch and replaces the previous one wholesale.
type AnalyticsSnapshot struct {
	TotalOrdersToday      int            `json:"total_orders_today"`
	OrdersChange          string         `json:"orders_change"`
	OrdersChangePositive  bool           `json:"orders_change_positive"`
	RevenueToday          string         `json:"revenue_today"`
	RevenueChange         string         `json:"revenue_change"`
	RevenueChangePositive bool           `json:"revenue_change_positive"`
	PendingOrders         int            `json:"pending_orders"`
	PopularDish           DishCount      `json:"popular_dish"`
	LeastOrderedDish      DishCount      `json:"least_ordered_dish"`
	RecentOrders          []RecentOrder  `json:"recent_orders"`
	RevenueByDay          []RevenuePoint `json:"revenue_by_day"`
	CategorySales         []CategorySale `json:"category_sales"`
}

type DishCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RecentOrder is one row of the dashboard's recent-orders card.
type RecentOrder struct {
	ID           string   `json:"id"`
	TableNumber  string   `json:"table_number"`
	CustomerName string   `json:"customer_name"`
	Items        []string `json:"items"`
	Total        float64  `json:"total"`
	Status       string   `json:"status"`
	Timestamp    string   `json:"timestamp"`
	CreatedAt    string   `json:"created_at"`
}

// RevenuePoint is one weekday bucket of the revenue chart. Date is a
// weekday short name ("Mon".."Sun"), not a calendar date, so windows longer
// than seven days fold onto the same seven buckets.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type CategorySale struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
}

// OrdersOverTime pairs the order-count and revenue series over the same
// weekday buckets.
type OrdersOverTime struct {
	OrdersOverTime []OrdersPoint  `json:"orders_over_time"`
	RevenueData    []RevenuePoint `json:"revenue_data"`
}

type OrdersPoint struct {
	Date   string `json:"date"`
	Orders int    `json:"orders"`
}

// HourSlot is one labeled service-hour bucket of the popular-hours chart.
type HourSlot struct {
	Hour   string `json:"hour"`
	Orders int    `json:"orders"`
}

// ActivityRow is one row of the recent-activity table and its CSV export.
type ActivityRow struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Table   string  `json:"table"`
	Items   string  `json:"items"`
	Amount  float64 `json:"amount"`
	Payment string  `json:"payment"`
	Status  string  `json:"status"`
}
