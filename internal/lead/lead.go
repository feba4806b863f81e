// Package lead defines the input records the campaign pipeline consumes:
// the lead itself, the researched company record and any scraped content.
// Records arrive already resolved from upstream scraping/enrichment stages.
package lead

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks a lead record rejected before entering the pipeline.
var ErrValidation = errors.New("lead validation failed")

// Lead is a prospective contact at a target company.
type Lead struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	LinkedInURL string `json:"linkedin_url,omitempty" validate:"omitempty,url"`
}

// Company is the researched company record for a lead.
type Company struct {
	Description     string   `json:"description,omitempty"`
	Services        []string `json:"services,omitempty"`
	Tone            string   `json:"tone,omitempty"`
	WebsiteInsights string   `json:"website_insights,omitempty"`
}

// ScrapedContent holds raw page text gathered by the scraper stage.
type ScrapedContent struct {
	Homepage string `json:"homepage,omitempty"`
	About    string `json:"about,omitempty"`
}

// Record bundles everything the pipeline receives for one lead.
type Record struct {
	Lead    Lead           `json:"lead" validate:"required"`
	Company Company        `json:"company"`
	Scraped ScrapedContent `json:"scraped"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate rejects records missing mandatory lead fields. A failure here is
// a ValidationFault: the lead never enters the pipeline.
func (r *Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace())
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// FirstName returns the lead's first name for personalization.
func (l Lead) FirstName() string {
	name := strings.TrimSpace(l.Name)
	if name == "" {
		return ""
	}
	return strings.Fields(name)[0]
}

// HasResearchSignal reports whether the company record carries enough
// description/services signal for content-specific personalization.
func (c Company) HasResearchSignal() bool {
	return strings.TrimSpace(c.Description) != "" || len(c.Services) > 0
}
