package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

// JSONB wrapper types so sqlx can scan the open-shaped product columns
// (mappings, attribute bag, translations, variants, properties) directly.

func jsonbValue(v interface{}) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func jsonbScan(src, dst interface{}) error {
	if src == nil {
		return nil
	}

	var data []byte
	switch s := src.(type) {
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}

	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

type stringMap map[string]string

func (m stringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonbValue(map[string]string(m))
}

func (m *stringMap) Scan(src interface{}) error { return jsonbScan(src, m) }

type attrMap map[string]domain.AttrValue

func (m attrMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return jsonbValue(map[string]domain.AttrValue(m))
}

func (m *attrMap) Scan(src interface{}) error { return jsonbScan(src, m) }

type stringSlice []string

func (s stringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonbValue([]string(s))
}

func (s *stringSlice) Scan(src interface{}) error { return jsonbScan(src, s) }

type variantSlice []domain.ProductVariant

func (s variantSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonbValue([]domain.ProductVariant(s))
}

func (s *variantSlice) Scan(src interface{}) error { return jsonbScan(src, s) }

type propertySlice []domain.ProductProperty

func (s propertySlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonbValue([]domain.ProductProperty(s))
}

func (s *propertySlice) Scan(src interface{}) error { return jsonbScan(src, s) }

type orderItemSlice []domain.OrderItem

func (s orderItemSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return jsonbValue([]domain.OrderItem(s))
}

func (s *orderItemSlice) Scan(src interface{}) error { return jsonbScan(src, s) }
