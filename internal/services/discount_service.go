package services

import (
	"fmt"
	"time"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// MinorAgeLimit is the exclusive upper age bound for the minor discount
	MinorAgeLimit = 18
	// SeniorAgeMin is the inclusive lower age bound for the senior discount
	SeniorAgeMin = 65
)

// categoryPriority breaks percentage ties deterministically
var categoryPriority = map[models.DiscountCategory]int{
	models.DiscountCategoryDisability: 3,
	models.DiscountCategorySenior:     2,
	models.DiscountCategoryMinor:      1,
}

// DiscountService derives the best applicable discount for a passenger from
// age/disability attributes and the tenant's configured rules
type DiscountService struct {
	logger *logrus.Logger
	now    func() time.Time
}

// NewDiscountService creates a new discount service
func NewDiscountService(logger *logrus.Logger) *DiscountService {
	return &DiscountService{logger: logger, now: time.Now}
}

// ComputeDiscount selects the candidate category with the highest configured
// percentage. A category is a candidate only when the tenant has an active
// rule for it and the client's attributes qualify. No match means category
// none with zero percent.
func (s *DiscountService) ComputeDiscount(client *models.Client, rules []models.DiscountRule) models.DiscountResult {
	age := client.AgeAt(s.now())

	best := models.DiscountResult{
		Category:    models.DiscountCategoryNone,
		Description: "no discount",
	}

	for _, rule := range rules {
		if !rule.Active || !s.eligible(client, age, rule.Category) {
			continue
		}

		percentage := s.clampPercentage(rule)
		if percentage > best.Percentage ||
			(percentage == best.Percentage && categoryPriority[rule.Category] > categoryPriority[best.Category]) {
			best = models.DiscountResult{
				Category:           rule.Category,
				Percentage:         percentage,
				RequiresValidation: rule.RequiresValidation,
				Description:        describeCategory(rule.Category, percentage),
			}
		}
	}

	return best
}

// ValidateEligibility re-derives eligibility for a category from raw client
// attributes, independent of the percentage lookup. Used for rules marked as
// requiring extra validation and by the standalone discount lookup endpoint.
func (s *DiscountService) ValidateEligibility(client *models.Client, category models.DiscountCategory) models.DiscountValidation {
	age := client.AgeAt(s.now())

	switch category {
	case models.DiscountCategoryNone:
		return models.DiscountValidation{Valid: true}
	case models.DiscountCategoryDisability:
		if !client.Disabled {
			return models.DiscountValidation{Valid: false, Reason: "client is not flagged as disabled"}
		}
		return models.DiscountValidation{Valid: true}
	case models.DiscountCategoryMinor:
		if client.BirthDate == nil {
			return models.DiscountValidation{Valid: false, Reason: "client has no birth date on record"}
		}
		if age >= MinorAgeLimit {
			return models.DiscountValidation{Valid: false, Reason: fmt.Sprintf("client is %d years old", age)}
		}
		return models.DiscountValidation{Valid: true}
	case models.DiscountCategorySenior:
		if client.BirthDate == nil {
			return models.DiscountValidation{Valid: false, Reason: "client has no birth date on record"}
		}
		if age < SeniorAgeMin {
			return models.DiscountValidation{Valid: false, Reason: fmt.Sprintf("client is %d years old", age)}
		}
		return models.DiscountValidation{Valid: true}
	}

	return models.DiscountValidation{Valid: false, Reason: fmt.Sprintf("unknown discount category %q", category)}
}

func (s *DiscountService) eligible(client *models.Client, age int, category models.DiscountCategory) bool {
	switch category {
	case models.DiscountCategoryDisability:
		return client.Disabled
	case models.DiscountCategoryMinor:
		return age >= 0 && age < MinorAgeLimit
	case models.DiscountCategorySenior:
		return age >= SeniorAgeMin
	}
	return false
}

// clampPercentage bounds a configured percentage to [0,100]. Out-of-range
// values are a tenant configuration error; they are clamped here so a bad
// rule cannot block checkout or produce negative prices.
func (s *DiscountService) clampPercentage(rule models.DiscountRule) float64 {
	p := rule.Percentage
	if p >= 0 && p <= 100 {
		return p
	}

	s.logger.WithFields(logrus.Fields{
		"rule_id":    rule.ID,
		"tenant_id":  rule.TenantID,
		"category":   rule.Category,
		"percentage": rule.Percentage,
	}).Warn("Discount rule percentage out of range, clamping")

	if p < 0 {
		return 0
	}
	return 100
}

func describeCategory(category models.DiscountCategory, percentage float64) string {
	switch category {
	case models.DiscountCategoryDisability:
		return fmt.Sprintf("disability discount (%.0f%%)", percentage)
	case models.DiscountCategoryMinor:
		return fmt.Sprintf("minor discount (%.0f%%)", percentage)
	case models.DiscountCategorySenior:
		return fmt.Sprintf("senior discount (%.0f%%)", percentage)
	}
	return "no discount"
}
