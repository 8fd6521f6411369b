package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// RoleAmounts maps a pricing role to a monetary amount, persisted as JSONB.
// Used for role-specific base price overrides on a variant.
type RoleAmounts map[enums.Role]decimal.Decimal

// Get returns the amount for the role and whether an entry exists.
func (r RoleAmounts) Get(role enums.Role) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Zero, false
	}
	amount, ok := r[role]
	return amount, ok
}

// Value serializes the map to JSON.
func (r RoleAmounts) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan decodes JSONB into the map.
func (r *RoleAmounts) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded RoleAmounts
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*r = decoded
	return nil
}

// RolePercents maps a pricing role to a percentage, persisted as JSONB.
// Used for discount and GST percentages on a variant.
type RolePercents map[enums.Role]decimal.Decimal

// Get returns the percentage for the role and whether an entry exists.
func (r RolePercents) Get(role enums.Role) (decimal.Decimal, bool) {
	if r == nil {
		return decimal.Zero, false
	}
	pct, ok := r[role]
	return pct, ok
}

// Value serializes the map to JSON.
func (r RolePercents) Value() (driver.Value, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r)
}

// Scan decodes JSONB into the map.
func (r *RolePercents) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded RolePercents
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*r = decoded
	return nil
}

func asJSON(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
