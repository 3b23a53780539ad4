// Package utils provides common utility functions for the catalog mirror.
// It includes the loose type conversions needed to decode remote catalog payloads,
// where the same field may arrive as a JSON number or as a numeric string.
package utils
