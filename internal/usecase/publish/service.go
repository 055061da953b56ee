// Package publish turns a refined product description into a new marketplace
// listing. The description arrives partially populated, so every optional
// field is an explicit pointer or nil-able collection rather than anything
// probed at runtime.
package publish

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/Pesokrava/marketplace_sync/internal/domain"
	"github.com/Pesokrava/marketplace_sync/internal/pkg/logger"
	pkgvalidator "github.com/Pesokrava/marketplace_sync/internal/pkg/validator"
)

// RefinedDescription is the fully-refined product description produced
// upstream. Optional SEO and multilingual fields are pointers; absent means
// not emitted.
type RefinedDescription struct {
	Title       string                      `json:"title" validate:"required,min=1,max=255"`
	Description string                      `json:"description,omitempty"`
	Price       float64                     `json:"price" validate:"gte=0"`
	Images      []string                    `json:"images,omitempty"`
	Attributes  map[string]domain.AttrValue `json:"attributes,omitempty"`

	SEOTitle                *string           `json:"seo_title,omitempty"`
	SEODescription          *string           `json:"seo_description,omitempty"`
	Keywords                *string           `json:"keywords,omitempty"`
	NameTranslations        map[string]string `json:"name_translations,omitempty"`
	DescriptionTranslations map[string]string `json:"description_translations,omitempty"`
}

// Outcome is the result of a publish attempt. Success with an empty
// MarketplaceProductID means the marketplace accepted the listing but
// answered in a shape carrying no recognizable ID.
type Outcome struct {
	Success              bool   `json:"success"`
	Message              string `json:"message"`
	MarketplaceProductID string `json:"marketplace_product_id,omitempty"`
}

// Service is the publish pipeline.
type Service struct {
	client          domain.MarketplaceClient
	products        domain.ProductRepository
	validate        *validator.Validate
	logger          *logger.Logger
	marketplaceType string
}

// NewService creates a publish service
func NewService(
	client domain.MarketplaceClient,
	products domain.ProductRepository,
	marketplaceType string,
	log *logger.Logger,
) *Service {
	return &Service{
		client:          client,
		products:        products,
		validate:        pkgvalidator.Get(),
		logger:          log,
		marketplaceType: marketplaceType,
	}
}

// Publish builds a creation payload from the description, submits it and
// records a local product stub when the marketplace returned an ID.
func (s *Service) Publish(ctx context.Context, desc RefinedDescription) (Outcome, error) {
	if err := s.validate.Struct(desc); err != nil {
		s.logger.Error("Refined description validation failed", err)
		return Outcome{Success: false, Message: "invalid description"}, domain.ErrInvalidInput
	}

	payload := s.buildPayload(desc)

	created, err := s.client.Create(ctx, payload)
	if err != nil {
		s.logger.Error("Marketplace rejected publish", err)
		return Outcome{Success: false, Message: err.Error()}, err
	}

	outcome := Outcome{Success: true, MarketplaceProductID: created.ID}
	if created.ID == "" {
		outcome.Message = "published, but the marketplace returned no product ID"
		s.logger.Warn(outcome.Message)
		return outcome, nil
	}
	outcome.Message = "published"

	if err := s.persistStub(ctx, desc, created.ID); err != nil {
		// The listing exists regardless; only the local record lagged.
		s.logger.Error("Failed to persist published product locally", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"marketplace_id": created.ID,
		"title":          desc.Title,
	}).Info("Product published to marketplace")

	return outcome, nil
}

// buildPayload maps the open attribute set onto the marketplace's creation
// payload. Only present optional fields are emitted.
func (s *Service) buildPayload(desc RefinedDescription) domain.MarketplaceProduct {
	mp := domain.MarketplaceProduct{
		Name:               desc.Title,
		Price:              desc.Price,
		Description:        desc.Description,
		SpecificAttributes: make(map[string]domain.AttrValue),
	}

	for key, value := range desc.Attributes {
		mp.SpecificAttributes[key] = value
	}

	if len(desc.Images) > 0 {
		items := make([]domain.AttrValue, 0, len(desc.Images))
		for _, img := range desc.Images {
			items = append(items, domain.StringAttr(img))
		}
		mp.SpecificAttributes["images"] = domain.ListAttr(items)
	}
	if desc.SEOTitle != nil {
		mp.SpecificAttributes["seo_title"] = domain.StringAttr(*desc.SEOTitle)
	}
	if desc.SEODescription != nil {
		mp.SpecificAttributes["seo_description"] = domain.StringAttr(*desc.SEODescription)
	}
	if desc.Keywords != nil {
		mp.SpecificAttributes["keywords"] = domain.StringAttr(*desc.Keywords)
	}
	if len(desc.NameTranslations) > 0 {
		mp.SpecificAttributes["name_multilang"] = stringMapAttr(desc.NameTranslations)
	}
	if len(desc.DescriptionTranslations) > 0 {
		mp.SpecificAttributes["description_multilang"] = stringMapAttr(desc.DescriptionTranslations)
	}

	return mp
}

// persistStub records the new listing as an internal product so subsequent
// export passes update it instead of creating a duplicate.
func (s *Service) persistStub(ctx context.Context, desc RefinedDescription, marketplaceID string) error {
	p := &domain.Product{
		Name:                    desc.Title,
		Description:             desc.Description,
		Price:                   desc.Price,
		Images:                  desc.Images,
		NameTranslations:        desc.NameTranslations,
		DescriptionTranslations: desc.DescriptionTranslations,
	}
	if len(desc.Images) > 0 {
		p.MainImage = desc.Images[0]
	}
	p.SetMarketplaceID(s.marketplaceType, marketplaceID)

	return s.products.Create(ctx, p)
}

func stringMapAttr(m map[string]string) domain.AttrValue {
	out := make(map[string]domain.AttrValue, len(m))
	for k, v := range m {
		out[k] = domain.StringAttr(v)
	}
	return domain.MapAttr(out)
}
