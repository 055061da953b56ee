package marketplace

import (
	"encoding/json"
	"strconv"
)

// The marketplace's create/update endpoints answer with the assigned product
// ID in one of several shapes: a bare scalar, {"id": ...}, {"product_id": ...}
// or {"product": {"id": ...}}. Each shape gets its own extraction strategy;
// the strategies are tried in order and the first match wins.

// idStrategy attempts to pull a product ID out of a raw response body.
type idStrategy func(body []byte) (string, bool)

var idStrategies = []idStrategy{
	extractBareID,
	extractTopLevelID,
	extractProductIDField,
	extractNestedProductID,
}

// ExtractCreatedID probes the response body with every known strategy and
// returns the first ID found. The second return is false when no strategy
// matched, which callers must treat as "created, but ID unknown" rather than
// as a failure.
func ExtractCreatedID(body []byte) (string, bool) {
	for _, strategy := range idStrategies {
		if id, ok := strategy(body); ok {
			return id, true
		}
	}
	return "", false
}

// extractBareID handles a body that is nothing but the ID itself,
// either a JSON string or a JSON number.
func extractBareID(body []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return s, true
	}

	var n json.Number
	if err := json.Unmarshal(body, &n); err == nil && n.String() != "" {
		return n.String(), true
	}

	return "", false
}

// extractTopLevelID handles {"id": ...}.
func extractTopLevelID(body []byte) (string, bool) {
	var payload struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	return scalarToString(payload.ID)
}

// extractProductIDField handles {"product_id": ...}.
func extractProductIDField(body []byte) (string, bool) {
	var payload struct {
		ProductID json.RawMessage `json:"product_id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	return scalarToString(payload.ProductID)
}

// extractNestedProductID handles {"product": {"id": ...}}.
func extractNestedProductID(body []byte) (string, bool) {
	var payload struct {
		Product struct {
			ID json.RawMessage `json:"id"`
		} `json:"product"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	return scalarToString(payload.Product.ID)
}

// scalarToString normalizes a raw JSON scalar (string or number) to its
// string form.
func scalarToString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}

	return "", false
}
