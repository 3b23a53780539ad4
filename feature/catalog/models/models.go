package models

import (
	"bytes"
	"encoding/json"

	"gorm.io/datatypes"
)

// All returns every catalog model, in migration order.
func All() []any {
	return []any{
		&Artist{}, &Tag{}, &Item{}, &ItemTag{}, &ItemImage{},
		&Order{}, &OrderItem{}, &OfferType{}, &Setting{},
	}
}

// DefaultOfferTypes seeds the offer_types table.
var DefaultOfferTypes = []OfferType{
	{Type: "buy_button", Name: "Buy Button", Position: 1},
	{Type: "email_for_media", Name: "Email For Media", Position: 2},
	{Type: "bundle_widget", Name: "Bundle Widget", Position: 3},
	{Type: "single_track_player_widget", Name: "Single Track Player Widget", Position: 4},
}

// EncodeBlob turns a remote payload into a stored JSON blob.
// An empty payload or JSON null is stored as NULL; anything that is not valid JSON
// is stored as a JSON string so the column always holds valid JSON.
func EncodeBlob(raw []byte) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if json.Valid(trimmed) {
		return datatypes.JSON(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return datatypes.JSON(quoted)
}
