package admin

import "time"

// Status is the visibility of catalog entities.
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusHidden Status = "HIDDEN"
)

// Created is the reply to a create call.
type Created struct {
	ID   string `json:"id"`
	Slug string `json:"slug,omitempty"`
}

type Banner struct {
	ID           string    `json:"_id"`
	Image        string    `json:"image"`
	Title        string    `json:"title,omitempty"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Discount     string    `json:"discount,omitempty"`
	Status       Status    `json:"status"`
	Position     string    `json:"position"`
	Sort         int       `json:"sort"`
	Link         string    `json:"link,omitempty"`
	CategorySlug string    `json:"categorySlug,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BannerInput is the body of create and update calls. Nil fields are left out, so the
// same type serves partial updates.
type BannerInput struct {
	Image        *string `json:"image,omitempty"`
	Title        *string `json:"title,omitempty"`
	Subtitle     *string `json:"subtitle,omitempty"`
	Discount     *string `json:"discount,omitempty"`
	Status       *Status `json:"status,omitempty"`
	Position     *string `json:"position,omitempty"`
	Sort         *int    `json:"sort,omitempty"`
	Link         *string `json:"link,omitempty"`
	CategorySlug *string `json:"categorySlug,omitempty"`
}

// Brand is a product manufacturer.
type Brand struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Status      Status `json:"status"`
}

type BrandInput struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Image       *string `json:"image,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
}

type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Title       string    `json:"title,omitempty"`
	Slug        string    `json:"slug"`
	Image       string    `json:"image,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

type CategoryInput struct {
	Name        *string  `json:"name,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Images      []string `json:"images,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *Status  `json:"status,omitempty"`
}

type Subcategory struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	CategoryID  string    `json:"categoryId"`
	Images      []string  `json:"images,omitempty"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt,omitzero"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

type SubcategoryInput struct {
	Name        *string  `json:"name,omitempty"`
	Slug        *string  `json:"slug,omitempty"`
	CategoryID  *string  `json:"categoryId,omitempty"`
	Images      []string `json:"images,omitempty"`
	Description *string  `json:"description,omitempty"`
	Status      *Status  `json:"status,omitempty"`
}

type Product struct {
	ID           string   `json:"_id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Brand        string   `json:"brand,omitempty"`
	CategorySlug string   `json:"categorySlug,omitempty"`
	Price        float64  `json:"price"`
	Stock        int      `json:"stock"`
	Image        string   `json:"image,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// ProductPage is one page of the product listing.
type ProductPage struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderInShipping OrderStatus = "IN_SHIPPING"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderReturned   OrderStatus = "RETURNED"
)

type Address struct {
	HouseOrVillage   string `json:"houseOrVillage,omitempty"`
	RoadOrPostOffice string `json:"roadOrPostOffice,omitempty"`
	BlockOrThana     string `json:"blockOrThana,omitempty"`
	District         string `json:"district,omitempty"`
}

type OrderCustomer struct {
	Name           string   `json:"name,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	BillingAddress *Address `json:"billingAddress,omitempty"`
}

type OrderLine struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Image     string  `json:"image,omitempty"`
}

type OrderTotals struct {
	SubTotal   float64 `json:"subTotal"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grandTotal"`
}

type Order struct {
	ID        string        `json:"_id"`
	Customer  OrderCustomer `json:"customer"`
	Lines     []OrderLine   `json:"lines"`
	Totals    OrderTotals   `json:"totals"`
	Status    OrderStatus   `json:"status"`
	CreatedAt time.Time     `json:"createdAt,omitzero"`
}

// OrderPage is one page of the order listing.
type OrderPage struct {
	Items []Order `json:"items"`
	Total int     `json:"total"`
}

// OrderFilter narrows the order listing. Dates are YYYY-MM-DD; zero values are omitted.
type OrderFilter struct {
	Page      int
	Limit     int
	Status    OrderStatus
	StartDate string
	EndDate   string
}

type DeliverySettings struct {
	FreeDeliveryThreshold float64 `json:"freeDeliveryThreshold"`
	DeliveryCharge        float64 `json:"deliveryCharge"`
	IsActive              bool    `json:"isActive"`
}

// MovementType classifies a stock movement.
type MovementType string

const (
	MovementPurchase   MovementType = "PURCHASE"
	MovementReturn     MovementType = "RETURN"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementSale       MovementType = "SALE"
	MovementDamage     MovementType = "DAMAGE"
	MovementLoss       MovementType = "LOSS"
)

type StockMovement struct {
	ID            string       `json:"_id"`
	ProductID     string       `json:"productId"`
	Quantity      int          `json:"quantity"`
	Type          MovementType `json:"type"`
	Reason        string       `json:"reason,omitempty"`
	Reference     string       `json:"reference,omitempty"`
	PreviousStock int          `json:"previousStock"`
	NewStock      int          `json:"newStock"`
	CreatedAt     time.Time    `json:"createdAt"`
	CreatedBy     string       `json:"createdBy,omitempty"`
}

// StockChange is the body of add and remove stock calls.
type StockChange struct {
	Quantity  int          `json:"quantity"`
	Type      MovementType `json:"type"`
	Reason    string       `json:"reason,omitempty"`
	Reference string       `json:"reference,omitempty"`
}

type StockOverview struct {
	TotalProducts int     `json:"totalProducts"`
	OutOfStock    int     `json:"outOfStock"`
	LowStock      int     `json:"lowStock"`
	TotalValue    float64 `json:"totalValue"`
}

// StockItem is an entry of the low and out of stock listings.
type StockItem struct {
	ID     string   `json:"_id"`
	Title  string   `json:"title"`
	Stock  int      `json:"stock"`
	Price  float64  `json:"price"`
	Images []string `json:"images,omitempty"`
}

// NotificationType names what a notification is about.
type NotificationType string

const (
	NotificationOrder      NotificationType = "ORDER"
	NotificationLowStock   NotificationType = "LOW_STOCK"
	NotificationOutOfStock NotificationType = "OUT_OF_STOCK"
)

type Notification struct {
	ID        string           `json:"_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	CreatedAt time.Time        `json:"createdAt"`
	RelatedID string           `json:"relatedId,omitempty"`
}

type NotificationPage struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	TotalCount    int            `json:"totalCount"`
	CurrentPage   int            `json:"currentPage"`
	TotalPages    int            `json:"totalPages"`
}

type ReturnItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ReturnRequest records goods coming back from a customer.
type ReturnRequest struct {
	OrderID string       `json:"orderId"`
	Reason  string       `json:"reason"`
	Items   []ReturnItem `json:"items"`
	Notes   string       `json:"notes,omitempty"`
}

// ReturnResult is the backend's reply to a processed return.
type ReturnResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
