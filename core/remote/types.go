package remote

import (
	"bytes"
	"encoding/json"
	"net/url"

	"catalog-mirror/core/utils"
)

// Offer types known to the catalog.
const (
	OfferTypeBuyButton     = "buy_button"
	OfferTypeEmailForMedia = "email_for_media"
	OfferTypeBundleWidget  = "bundle_widget"
	OfferTypeSingleTrack   = "single_track_player_widget"
)

// OfferTypes lists every known offer type in display order.
var OfferTypes = []string{OfferTypeBuyButton, OfferTypeEmailForMedia, OfferTypeBundleWidget, OfferTypeSingleTrack}

// FlexInt decodes a JSON number, numeric string or null.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	*f = FlexInt(utils.ToInt64(v))
	return nil
}

// FlexFloat decodes a JSON number, numeric string or null.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	*f = FlexFloat(utils.ToFloat64(v))
	return nil
}

// FlexString decodes any JSON scalar into a string. Objects and arrays keep their raw JSON text.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		*f = FlexString(trimmed)
		return nil
	}
	v, err := decodeLoose(b)
	if err != nil {
		return err
	}
	*f = FlexString(utils.ToString(v))
	return nil
}

// StringList decodes an array of scalars. Any other shape decodes as empty.
type StringList []string

func (s *StringList) UnmarshalJSON(b []byte) error {
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = nil
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str := utils.ToString(v); str != "" {
			out = append(out, str)
		}
	}
	*s = out
	return nil
}

// List decodes an array of objects. Any other shape decodes as empty and elements of the
// wrong shape are dropped.
type List[T any] []T

func (l *List[T]) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		*l = nil
		return nil
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

func decodeLoose(b []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Artist is one entry of the artist listing.
type Artist struct {
	ID          FlexInt    `json:"id"`
	Name        FlexString `json:"name"`
	AvatarImage FlexString `json:"avatar_image"`
	URL         FlexString `json:"url"`
	Description FlexString `json:"description"`
	Website     FlexString `json:"website"`
	SpinTags    StringList `json:"spin_tags"`
}

// ArtistPage is one page of the artist listing.
type ArtistPage struct {
	TotalPages  FlexInt      `json:"total_pages"`
	CurrentPage FlexInt      `json:"current_page"`
	Artists     List[Artist] `json:"artists"`
}

// Image is one entry of an offer's nested product image list.
type Image struct {
	SourceURL FlexString `json:"source_url"`
	SmallURL  FlexString `json:"small_url"`
	MediumURL FlexString `json:"medium_url"`
	LargeURL  FlexString `json:"large_url"`
}

// Offer is one sellable or promotable catalog entry.
type Offer struct {
	ID                FlexInt         `json:"id"`
	ArtistID          FlexInt         `json:"artist_id"`
	ReportingName     FlexString      `json:"reporting_name"`
	Name              FlexString      `json:"name"`
	Description       FlexString      `json:"description"`
	OfferType         FlexString      `json:"offer_type"`
	ProductType       FlexString      `json:"product_type"`
	Price             FlexFloat       `json:"price"`
	Currency          FlexString      `json:"currency"`
	PosterImage       FlexString      `json:"poster_image"`
	PosterImageSource FlexString      `json:"poster_image_source"`
	EmbedCode         FlexString      `json:"embed_code"`
	Width             FlexInt         `json:"width"`
	Height            FlexInt         `json:"height"`
	URL               FlexString      `json:"url"`
	OfferURL          FlexString      `json:"offer_url"`
	MobileURL         FlexString      `json:"mobile_url"`
	Tags              StringList      `json:"tags"`
	Campaign          json.RawMessage `json:"campaign"`
}

// CampaignID returns the cId query parameter of the offer URL, or "" when absent.
func (o Offer) CampaignID() string {
	if o.OfferURL == "" {
		return ""
	}
	u, err := url.Parse(string(o.OfferURL))
	if err != nil {
		return ""
	}
	return u.Query().Get("cId")
}

// Images returns the campaign's product image list. A missing or malformed list is empty.
func (o Offer) Images() []Image {
	if len(o.Campaign) == 0 {
		return nil
	}
	var campaign struct {
		Product struct {
			Images List[Image] `json:"images"`
		} `json:"product"`
	}
	if err := json.Unmarshal(o.Campaign, &campaign); err != nil {
		return nil
	}
	return campaign.Product.Images
}

// OfferPage is one page of an artist's offers.
type OfferPage struct {
	TotalPages  FlexInt     `json:"total_pages"`
	CurrentPage FlexInt     `json:"current_page"`
	Offers      List[Offer] `json:"offers"`
}

// Address is an order's shipping address.
type Address struct {
	FirstName  FlexString `json:"firstname"`
	LastName   FlexString `json:"lastname"`
	Address1   FlexString `json:"address1"`
	Address2   FlexString `json:"address2"`
	City       FlexString `json:"city"`
	State      FlexString `json:"state"`
	PostalCode FlexString `json:"postal_code"`
	Country    FlexString `json:"country"`
	Phone      FlexString `json:"phone"`
}

// UnmarshalJSON decodes an address object. Any other shape, such as the empty array sent
// for orders without shipping, decodes as the zero address.
func (a *Address) UnmarshalJSON(b []byte) error {
	type plain Address
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		*a = Address{}
		return nil
	}
	*a = Address(v)
	return nil
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID              FlexInt         `json:"id"`
	CampaignID      FlexString      `json:"campaign_id"`
	LineItemID      FlexString      `json:"line_item_id"`
	SpinName        FlexString      `json:"spin_name"`
	ProductID       FlexString      `json:"product_id"`
	ProductName     FlexString      `json:"product_name"`
	ProductType     FlexString      `json:"product_type"`
	MerchandiseType FlexString      `json:"merchandise_type"`
	Quantity        FlexInt         `json:"quantity"`
	SkuID           FlexString      `json:"sku_id"`
	SkuUPC          FlexString      `json:"sku_upc"`
	SkuAttributes   json.RawMessage `json:"sku_attributes"`
	FactorySku      FlexString      `json:"factory_sku"`
	Shipped         FlexString      `json:"shipped"`
	Status          FlexString      `json:"status"`
	Weight          json.RawMessage `json:"weight"`
	BundleSkuID     FlexString      `json:"bundle_sku_id"`
	ShippingDate    FlexString      `json:"shipping_date"`
}

// Order is one fan order with its line items.
type Order struct {
	ID                       FlexInt         `json:"id"`
	ArtistID                 FlexInt         `json:"artist_id"`
	CreatedAt                FlexString      `json:"created_at"`
	Subtotal                 FlexFloat       `json:"subtotal"`
	Tax                      FlexFloat       `json:"tax"`
	Currency                 FlexString      `json:"currency"`
	Phone                    FlexString      `json:"phone"`
	ShippingMethodCalculator FlexString      `json:"shipping_method_calculator"`
	ShippingMethodCode       FlexString      `json:"shipping_method_code"`
	Reshipment               FlexString      `json:"reshipment"`
	Fan                      FlexString      `json:"fan"`
	DetailsURL               FlexString      `json:"details_url"`
	ExchangeRate             FlexFloat       `json:"exchange_rate"`
	ShippingAddress          *Address        `json:"shipping_address"`
	Items                    List[OrderItem] `json:"items"`
}

// OrderPage is one page of the order listing.
type OrderPage struct {
	TotalPages  FlexInt     `json:"total_pages"`
	CurrentPage FlexInt     `json:"current_page"`
	Orders      List[Order] `json:"response"`
}

// SkuResult is the stock lookup for one campaign.
type SkuResult struct {
	Status   string `json:"status"`
	Response struct {
		Skus json.RawMessage `json:"skus"`
	} `json:"response"`
}

// OK reports whether the lookup succeeded.
func (r *SkuResult) OK() bool {
	return r != nil && r.Status == "ok"
}

// InStock sums in_stock_quantity across the returned SKUs.
func (r *SkuResult) InStock() int64 {
	if !r.OK() || len(r.Response.Skus) == 0 {
		return 0
	}
	var skus []struct {
		InStockQuantity FlexInt `json:"in_stock_quantity"`
	}
	if err := json.Unmarshal(r.Response.Skus, &skus); err != nil {
		return 0
	}
	var total int64
	for _, s := range skus {
		total += int64(s.InStockQuantity)
	}
	return total
}
