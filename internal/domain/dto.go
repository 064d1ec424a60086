package domain

import "time"

type OrderItemInput struct {
	MenuItemID string  `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}

type CreateOrderRequest struct {
	RestaurantID  string           `json:"restaurant_id"`
	TableNumber   int              `json:"table_number"`
	CustomerName  string           `json:"customer_name"`
	CustomerPhone string           `json:"customer_phone"`
	Items         []OrderItemInput `json:"items"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus OrderStatus `json:"order_status"`
}

type UpdateRestaurantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
}

type MenuItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

type RevenueByDay struct {
	Day     string  `json:"day"` // YYYY-MM-DD
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type BestSellingItem struct {
	MenuItemID   string  `json:"menu_item_id"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type AnalyticsSummary struct {
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
	TotalOrders       int               `json:"total_orders"`
	TotalRevenue      float64           `json:"total_revenue"`
	AverageOrderValue float64           `json:"average_order_value"`
	OrdersByStatus    map[string]int    `json:"orders_by_status"`
	RevenueByDay      []RevenueByDay    `json:"revenue_by_day"`
	BestSellingItems  []BestSellingItem `json:"best_selling_items"`
}
