// Package mapper translates between the marketplace's flat product
// representation and the internal Product aggregate. Both directions are pure
// and total: missing or malformed attributes degrade to zero values, and
// attributes without a known destination are preserved verbatim so a
// round-trip never loses data.
package mapper

import (
	"encoding/json"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
)

// DefaultCurrency is emitted on export when a product has no currency set.
const DefaultCurrency = "UAH"

// Well-known attribute keys on the marketplace side.
const (
	attrSKU              = "sku"
	attrOldPrice         = "old_price"
	attrCurrency         = "currency"
	attrMainImage        = "main_image"
	attrImages           = "images"
	attrQuantityInStock  = "quantity_in_stock"
	attrInStock          = "in_stock"
	attrStatus           = "status"
	attrCategoryID       = "category_id"
	attrCategoryName     = "category_name"
	attrGroupID          = "group_id"
	attrGroupName        = "group_name"
	attrNameMultilang    = "name_multilang"
	attrDescMultilang    = "description_multilang"
	attrExternalID       = "external_id"
	attrIsVariant        = "is_variant"
	attrVariantGroupID   = "variant_group_id"
	attrVariants         = "variants"
	attrProperties       = "properties"
)

// knownAttrs is the set of keys the mapper translates to first-class fields.
// Anything else passes through MarketplaceData untouched.
var knownAttrs = map[string]struct{}{
	attrSKU: {}, attrOldPrice: {}, attrCurrency: {}, attrMainImage: {},
	attrImages: {}, attrQuantityInStock: {}, attrInStock: {}, attrStatus: {},
	attrCategoryID: {}, attrCategoryName: {}, attrGroupID: {}, attrGroupName: {},
	attrNameMultilang: {}, attrDescMultilang: {}, attrExternalID: {},
	attrIsVariant: {}, attrVariantGroupID: {}, attrVariants: {}, attrProperties: {},
}

// Mapper converts marketplace products to internal products and back.
// It is stateless apart from the marketplace type tag it stamps on imports.
type Mapper struct {
	marketplaceType string
}

// New creates a mapper for one marketplace type.
func New(marketplaceType string) *Mapper {
	return &Mapper{marketplaceType: marketplaceType}
}

// ToInternal maps a marketplace product onto the internal shape. Malformed
// attribute values keep the internal default; unknown attributes are copied
// into MarketplaceData unchanged.
func (m *Mapper) ToInternal(mp domain.MarketplaceProduct) *domain.Product {
	p := &domain.Product{
		Name:        mp.Name,
		Price:       mp.Price,
		Description: mp.Description,
	}
	if mp.ID != "" {
		p.SetMarketplaceID(m.marketplaceType, mp.ID)
	}

	// Map iteration order is unspecified, so an explicit in_stock flag is
	// applied after the loop to keep it from racing quantity_in_stock.
	var explicitInStock *bool

	for key, value := range mp.SpecificAttributes {
		switch key {
		case attrSKU:
			p.SKU = value.String()
		case attrExternalID:
			p.ExternalID = value.String()
		case attrOldPrice:
			if f, ok := value.Float64(); ok {
				p.OldPrice = f
			}
		case attrCurrency:
			p.Currency = value.String()
		case attrMainImage:
			p.MainImage = value.String()
		case attrImages:
			p.Images = value.StringList()
		case attrQuantityInStock:
			if n, ok := value.Int(); ok {
				p.QuantityInStock = n
				p.InStock = n > 0
			}
		case attrInStock:
			if b, ok := value.Bool(); ok {
				explicitInStock = &b
			}
		case attrStatus:
			p.Status = value.String()
		case attrCategoryID:
			p.CategoryID = value.String()
		case attrCategoryName:
			p.CategoryName = value.String()
		case attrGroupID:
			p.GroupID = value.String()
		case attrGroupName:
			p.GroupName = value.String()
		case attrNameMultilang:
			p.NameTranslations = value.StringMap()
		case attrDescMultilang:
			p.DescriptionTranslations = value.StringMap()
		case attrIsVariant:
			if b, ok := value.Bool(); ok {
				p.IsVariant = b
			}
		case attrVariantGroupID:
			p.VariantGroupID = value.String()
		case attrVariants:
			p.Variants = decodeVariants(value)
		case attrProperties:
			p.Properties = decodeProperties(value)
		default:
			if p.MarketplaceData == nil {
				p.MarketplaceData = make(map[string]domain.AttrValue)
			}
			p.MarketplaceData[key] = value
		}
	}

	if explicitInStock != nil {
		p.InStock = *explicitInStock
	}

	return p
}

// ToExternal maps an internal product onto the marketplace shape. Only
// non-zero fields are emitted so an export never blanks marketplace-side
// data the internal model does not carry.
func (m *Mapper) ToExternal(p *domain.Product) domain.MarketplaceProduct {
	mp := domain.MarketplaceProduct{
		ID:                 p.MarketplaceID,
		Name:               p.Name,
		Price:              p.Price,
		Description:        p.Description,
		SpecificAttributes: make(map[string]domain.AttrValue),
	}

	// Preserved unknown attributes go first so mapped fields win on key clash.
	for key, value := range p.MarketplaceData {
		if _, known := knownAttrs[key]; known {
			continue
		}
		mp.SpecificAttributes[key] = value
	}

	if p.SKU != "" {
		mp.SpecificAttributes[attrSKU] = domain.StringAttr(p.SKU)
	}
	if p.ExternalID != "" {
		mp.SpecificAttributes[attrExternalID] = domain.StringAttr(p.ExternalID)
	}
	if p.OldPrice != 0 {
		mp.SpecificAttributes[attrOldPrice] = domain.NumberAttr(p.OldPrice)
	}
	currency := p.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	mp.SpecificAttributes[attrCurrency] = domain.StringAttr(currency)
	if p.MainImage != "" {
		mp.SpecificAttributes[attrMainImage] = domain.StringAttr(p.MainImage)
	}
	if len(p.Images) > 0 {
		mp.SpecificAttributes[attrImages] = encodeStringList(p.Images)
	}
	if p.QuantityInStock != 0 {
		mp.SpecificAttributes[attrQuantityInStock] = domain.NumberAttr(float64(p.QuantityInStock))
	}
	mp.SpecificAttributes[attrInStock] = domain.BoolAttr(p.InStock)
	if p.Status != "" {
		mp.SpecificAttributes[attrStatus] = domain.StringAttr(p.Status)
	}
	if p.CategoryID != "" {
		mp.SpecificAttributes[attrCategoryID] = domain.StringAttr(p.CategoryID)
	}
	if p.CategoryName != "" {
		mp.SpecificAttributes[attrCategoryName] = domain.StringAttr(p.CategoryName)
	}
	if p.GroupID != "" {
		mp.SpecificAttributes[attrGroupID] = domain.StringAttr(p.GroupID)
	}
	if p.GroupName != "" {
		mp.SpecificAttributes[attrGroupName] = domain.StringAttr(p.GroupName)
	}
	if len(p.NameTranslations) > 0 {
		mp.SpecificAttributes[attrNameMultilang] = encodeStringMap(p.NameTranslations)
	}
	if len(p.DescriptionTranslations) > 0 {
		mp.SpecificAttributes[attrDescMultilang] = encodeStringMap(p.DescriptionTranslations)
	}
	if p.IsVariant {
		mp.SpecificAttributes[attrIsVariant] = domain.BoolAttr(true)
	}
	if p.VariantGroupID != "" {
		mp.SpecificAttributes[attrVariantGroupID] = domain.StringAttr(p.VariantGroupID)
	}
	if len(p.Variants) > 0 {
		mp.SpecificAttributes[attrVariants] = encodeVariants(p.Variants)
	}
	if len(p.Properties) > 0 {
		mp.SpecificAttributes[attrProperties] = encodeProperties(p.Properties)
	}

	return mp
}

// decodeProperties decodes a properties attribute: a list of
// {name, value, unit} maps, possibly JSON-encoded inside a string.
// Decode failure yields an empty collection.
func decodeProperties(value domain.AttrValue) []domain.ProductProperty {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	if value.Kind == domain.KindString {
		data = []byte(value.Str)
	}

	var props []domain.ProductProperty
	if err := json.Unmarshal(data, &props); err != nil {
		return nil
	}
	return props
}

func encodeProperties(props []domain.ProductProperty) domain.AttrValue {
	data, err := json.Marshal(props)
	if err != nil {
		return domain.AttrValue{}
	}
	return domain.StringAttr(string(data))
}

// decodeVariants decodes a variants attribute the same way as properties:
// a list of variant objects, possibly JSON-encoded inside a string.
func decodeVariants(value domain.AttrValue) []domain.ProductVariant {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	if value.Kind == domain.KindString {
		data = []byte(value.Str)
	}

	var variants []domain.ProductVariant
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil
	}
	return variants
}

func encodeVariants(variants []domain.ProductVariant) domain.AttrValue {
	data, err := json.Marshal(variants)
	if err != nil {
		return domain.AttrValue{}
	}
	return domain.StringAttr(string(data))
}

// Lists and maps ride the wire JSON-encoded inside string attributes.

func encodeStringList(items []string) domain.AttrValue {
	data, err := json.Marshal(items)
	if err != nil {
		return domain.AttrValue{}
	}
	return domain.StringAttr(string(data))
}

func encodeStringMap(m map[string]string) domain.AttrValue {
	data, err := json.Marshal(m)
	if err != nil {
		return domain.AttrValue{}
	}
	return domain.StringAttr(string(data))
}
