package compose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidManualEntry is returned for a manual order entry without a positive item id.
var ErrInvalidManualEntry = errors.New("invalid manual order entry")

// ManualEntry is one position of a hand-arranged storefront.
type ManualEntry struct {
	ItemID  int64 `json:"item_id"`
	Visible bool  `json:"visible"`
}

// ParseManualOrder parses the persisted "id:flag,id:flag" form. Blank entries are ignored, a
// flag of "0" or no flag at all is hidden and any other flag is visible. Entries without a
// positive item id are returned in skipped and left out of the order.
func ParseManualOrder(s string) (entries []ManualEntry, skipped []string) {
	for _, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		idPart, flag, _ := strings.Cut(raw, ":")
		id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
		if err != nil || id <= 0 {
			skipped = append(skipped, raw)
			continue
		}
		switch strings.TrimSpace(flag) {
		case "0", "":
			entries = append(entries, ManualEntry{ItemID: id})
		default:
			entries = append(entries, ManualEntry{ItemID: id, Visible: true})
		}
	}
	return entries, skipped
}

// ValidateManualOrder rejects entries that cannot be persisted.
func ValidateManualOrder(entries []ManualEntry) error {
	for _, e := range entries {
		if e.ItemID <= 0 {
			return fmt.Errorf("%w: item id %d", ErrInvalidManualEntry, e.ItemID)
		}
	}
	return nil
}

// FormatManualOrder renders entries in the persisted form.
func FormatManualOrder(entries []ManualEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		flag := "0"
		if e.Visible {
			flag = "1"
		}
		parts = append(parts, strconv.FormatInt(e.ItemID, 10)+":"+flag)
	}
	return strings.Join(parts, ",")
}
