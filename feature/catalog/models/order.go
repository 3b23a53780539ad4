package models

import "gorm.io/datatypes"

// Order is a mirrored fan order. Orders are upserted and never swept.
type Order struct {
	ID                        int64   `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	ArtistID                  int64   `gorm:"column:artist_id;index" json:"artist_id"`
	PlacedAt                  string  `gorm:"column:created_at;size:64;index" json:"created_at"`
	Subtotal                  float64 `gorm:"column:subtotal" json:"subtotal"`
	Tax                       float64 `gorm:"column:tax" json:"tax"`
	Currency                  string  `gorm:"column:currency;size:8" json:"currency"`
	Phone                     string  `gorm:"column:phone;size:64" json:"phone"`
	ShippingMethodCalculator  string  `gorm:"column:shipping_method_calculator;size:255" json:"shipping_method_calculator"`
	ShippingMethodCode        string  `gorm:"column:shipping_method_code;size:255" json:"shipping_method_code"`
	Reshipment                string  `gorm:"column:reshipment;size:64" json:"reshipment"`
	Fan                       string  `gorm:"column:fan;type:text" json:"fan"`
	DetailsURL                string  `gorm:"column:details_url;size:1024" json:"details_url"`
	ExchangeRate              float64 `gorm:"column:exchange_rate" json:"exchange_rate"`
	ShippingAddressFirstName  string  `gorm:"column:shipping_address_firstname;size:255" json:"shipping_address_firstname"`
	ShippingAddressLastName   string  `gorm:"column:shipping_address_lastname;size:255" json:"shipping_address_lastname"`
	ShippingAddressAddress1   string  `gorm:"column:shipping_address_address1;size:255" json:"shipping_address_address1"`
	ShippingAddressAddress2   string  `gorm:"column:shipping_address_address2;size:255" json:"shipping_address_address2"`
	ShippingAddressCity       string  `gorm:"column:shipping_address_city;size:255" json:"shipping_address_city"`
	ShippingAddressState      string  `gorm:"column:shipping_address_state;size:255" json:"shipping_address_state"`
	ShippingAddressPostalCode string  `gorm:"column:shipping_address_postal_code;size:64" json:"shipping_address_postal_code"`
	ShippingAddressCountry    string  `gorm:"column:shipping_address_country;size:64" json:"shipping_address_country"`
	ShippingAddressPhone      string  `gorm:"column:shipping_address_phone;size:64" json:"shipping_address_phone"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName overrides the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID              int64          `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	OrderID         int64          `gorm:"column:order_id;index" json:"order_id"`
	CampaignID      string         `gorm:"column:campaign_id;size:64;index" json:"campaign_id"`
	LineItemID      string         `gorm:"column:line_item_id;size:64" json:"line_item_id"`
	SpinName        string         `gorm:"column:spin_name;size:255" json:"spin_name"`
	ProductID       string         `gorm:"column:product_id;size:64" json:"product_id"`
	ProductName     string         `gorm:"column:product_name;size:255" json:"product_name"`
	ProductType     string         `gorm:"column:product_type;size:64" json:"product_type"`
	MerchandiseType string         `gorm:"column:merchandise_type;size:64" json:"merchandise_type"`
	Quantity        int64          `gorm:"column:quantity" json:"quantity"`
	SkuID           string         `gorm:"column:sku_id;size:64" json:"sku_id"`
	SkuUPC          string         `gorm:"column:sku_upc;size:64" json:"sku_upc"`
	SkuAttributes   datatypes.JSON `gorm:"column:sku_attributes" json:"sku_attributes,omitempty" swaggertype:"object"`
	FactorySku      string         `gorm:"column:factory_sku;size:64" json:"factory_sku"`
	Shipped         string         `gorm:"column:shipped;size:64" json:"shipped"`
	Status          string         `gorm:"column:status;size:64" json:"status"`
	Weight          datatypes.JSON `gorm:"column:weight" json:"weight,omitempty" swaggertype:"object"`
	BundleSkuID     string         `gorm:"column:bundle_sku_id;size:64" json:"bundle_sku_id"`
	ShippingDate    string         `gorm:"column:shipping_date;size:64" json:"shipping_date"`
}

// TableName overrides the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
