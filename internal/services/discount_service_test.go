package services

import (
	"testing"
	"time"

	"github.com/coopbus/ticketing-backend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestDiscountService(now time.Time) *DiscountService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewDiscountService(logger)
	svc.now = func() time.Time { return now }
	return svc
}

func birthDate(year, month, day int) *time.Time {
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestComputeDiscount(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestDiscountService(now)

	rules := []models.DiscountRule{
		{Category: models.DiscountCategoryMinor, Percentage: 25, Active: true},
		{Category: models.DiscountCategorySenior, Percentage: 15, Active: true},
		{Category: models.DiscountCategoryDisability, Percentage: 50, RequiresValidation: true, Active: true},
	}

	t.Run("Adult Gets No Discount", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(1985, 1, 1)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryNone, result.Category)
		assert.Equal(t, 0.0, result.Percentage)
	})

	t.Run("Senior Gets Senior Discount", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(1955, 1, 1)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategorySenior, result.Category)
		assert.Equal(t, 15.0, result.Percentage)
	})

	t.Run("Minor Gets Minor Discount", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(2015, 1, 1)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryMinor, result.Category)
		assert.Equal(t, 25.0, result.Percentage)
	})

	t.Run("Disabled Senior Gets Highest Percentage", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(1950, 1, 1), Disabled: true}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryDisability, result.Category)
		assert.Equal(t, 50.0, result.Percentage)
		assert.True(t, result.RequiresValidation)
	})

	t.Run("Tie Prefers Disability Over Senior", func(t *testing.T) {
		tied := []models.DiscountRule{
			{Category: models.DiscountCategorySenior, Percentage: 20, Active: true},
			{Category: models.DiscountCategoryDisability, Percentage: 20, Active: true},
		}
		client := &models.Client{BirthDate: birthDate(1950, 1, 1), Disabled: true}
		result := svc.ComputeDiscount(client, tied)
		assert.Equal(t, models.DiscountCategoryDisability, result.Category)
	})

	t.Run("Inactive Rule Ignored", func(t *testing.T) {
		inactive := []models.DiscountRule{
			{Category: models.DiscountCategorySenior, Percentage: 15, Active: false},
		}
		client := &models.Client{BirthDate: birthDate(1950, 1, 1)}
		result := svc.ComputeDiscount(client, inactive)
		assert.Equal(t, models.DiscountCategoryNone, result.Category)
	})

	t.Run("No Birth Date Means No Age Discounts", func(t *testing.T) {
		client := &models.Client{}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryNone, result.Category)
	})

	t.Run("No Birth Date Still Allows Disability", func(t *testing.T) {
		client := &models.Client{Disabled: true}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryDisability, result.Category)
	})

	t.Run("Percentage Above 100 Clamped", func(t *testing.T) {
		bad := []models.DiscountRule{
			{Category: models.DiscountCategorySenior, Percentage: 140, Active: true},
		}
		client := &models.Client{BirthDate: birthDate(1950, 1, 1)}
		result := svc.ComputeDiscount(client, bad)
		assert.Equal(t, 100.0, result.Percentage)
	})

	t.Run("Negative Percentage Clamped To Zero", func(t *testing.T) {
		bad := []models.DiscountRule{
			{Category: models.DiscountCategorySenior, Percentage: -10, Active: true},
		}
		client := &models.Client{BirthDate: birthDate(1950, 1, 1)}
		result := svc.ComputeDiscount(client, bad)
		assert.Equal(t, models.DiscountCategorySenior, result.Category)
		assert.Equal(t, 0.0, result.Percentage)
	})
}

func TestComputeDiscountAgeBoundaries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestDiscountService(now)

	rules := []models.DiscountRule{
		{Category: models.DiscountCategoryMinor, Percentage: 25, Active: true},
		{Category: models.DiscountCategorySenior, Percentage: 15, Active: true},
	}

	t.Run("18th Birthday Today Is Not A Minor", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(2007, 6, 15)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryNone, result.Category)
	})

	t.Run("18th Birthday Tomorrow Is Still A Minor", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(2007, 6, 16)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryMinor, result.Category)
	})

	t.Run("65th Birthday Today Is A Senior", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(1960, 6, 15)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategorySenior, result.Category)
	})

	t.Run("65th Birthday Tomorrow Is Not Yet A Senior", func(t *testing.T) {
		client := &models.Client{BirthDate: birthDate(1960, 6, 16)}
		result := svc.ComputeDiscount(client, rules)
		assert.Equal(t, models.DiscountCategoryNone, result.Category)
	})
}

func TestValidateEligibility(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestDiscountService(now)

	t.Run("None Is Always Valid", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{}, models.DiscountCategoryNone)
		assert.True(t, v.Valid)
	})

	t.Run("Disability Requires Flag", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{Disabled: false}, models.DiscountCategoryDisability)
		assert.False(t, v.Valid)
		assert.Contains(t, v.Reason, "not flagged")

		v = svc.ValidateEligibility(&models.Client{Disabled: true}, models.DiscountCategoryDisability)
		assert.True(t, v.Valid)
	})

	t.Run("Minor Requires Birth Date", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{}, models.DiscountCategoryMinor)
		assert.False(t, v.Valid)
		assert.Contains(t, v.Reason, "no birth date")
	})

	t.Run("Adult Fails Minor Validation", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{BirthDate: birthDate(1990, 1, 1)}, models.DiscountCategoryMinor)
		assert.False(t, v.Valid)
	})

	t.Run("Senior Validation", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{BirthDate: birthDate(1950, 1, 1)}, models.DiscountCategorySenior)
		assert.True(t, v.Valid)

		v = svc.ValidateEligibility(&models.Client{BirthDate: birthDate(1990, 1, 1)}, models.DiscountCategorySenior)
		assert.False(t, v.Valid)
	})

	t.Run("Unknown Category Is Invalid", func(t *testing.T) {
		v := svc.ValidateEligibility(&models.Client{}, models.DiscountCategory("loyalty"))
		assert.False(t, v.Valid)
	})
}
