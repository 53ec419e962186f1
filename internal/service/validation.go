package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aldanj/msp-engagements/internal/model"
)

// Pure validity checks shared by the entity services. Every violation is a
// wrapped ErrInvalidInput naming the offending field.

func validateContractName(name string) error {
	length := len(strings.TrimSpace(name))
	if length < 3 || length > 255 {
		return fmt.Errorf("%w: name must be between 3 and 255 characters", ErrInvalidInput)
	}
	return nil
}

func validateContractDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startDate and endDate are required", ErrInvalidInput)
	}
	if !end.After(start) {
		return fmt.Errorf("%w: endDate must be after startDate", ErrInvalidInput)
	}
	return nil
}

func validateContractValue(value *float64) error {
	if value == nil {
		return nil
	}
	if *value < 0 {
		return fmt.Errorf("%w: value must not be negative", ErrInvalidInput)
	}
	if *value > model.ContractValueMax {
		return fmt.Errorf("%w: value exceeds the maximum of %.2f", ErrInvalidInput, model.ContractValueMax)
	}
	return nil
}

func validateScopePricing(price *float64, quantity *int) error {
	if price != nil && *price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}
	if quantity != nil && *quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	return nil
}

// validateSAFDates enforces service end strictly after service start when
// both are present.
func validateSAFDates(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return fmt.Errorf("%w: safServiceEndDate must be after safServiceStartDate", ErrInvalidInput)
	}
	return nil
}

// validateProposalDates checks the effective date triple of a proposal: the
// caller passes the incoming value where provided, the stored value
// otherwise.
func validateProposalDates(submittedAt, approvedAt, validUntil *time.Time, now time.Time) error {
	if submittedAt != nil && submittedAt.After(now) {
		return fmt.Errorf("%w: submittedAt must not be in the future", ErrInvalidInput)
	}
	if submittedAt != nil && approvedAt != nil && !approvedAt.After(*submittedAt) {
		return fmt.Errorf("%w: approvedAt must be after submittedAt", ErrInvalidInput)
	}
	if validUntil != nil && !validUntil.After(now) {
		return fmt.Errorf("%w: validUntilDate must be in the future", ErrInvalidInput)
	}
	return nil
}

func validateDuration(days *int) error {
	if days != nil && (*days < 1 || *days > 3650) {
		return fmt.Errorf("%w: estimatedDurationDays must be between 1 and 3650", ErrInvalidInput)
	}
	return nil
}

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// resolveCurrency applies the financial consistency rules: a negative value
// is rejected, and a positive value without an explicit currency defaults to
// SAR. Returns the normalized currency and whether the default was applied.
func resolveCurrency(value *float64, currency *string) (*string, bool, error) {
	if value != nil && *value < 0 {
		return nil, false, fmt.Errorf("%w: proposalValue must not be negative", ErrInvalidInput)
	}
	if currency != nil {
		if !currencyPattern.MatchString(*currency) {
			return nil, false, fmt.Errorf("%w: currency must be a 3-letter ISO code", ErrInvalidInput)
		}
		normalized := strings.ToUpper(*currency)
		return &normalized, false, nil
	}
	if value != nil {
		defaulted := model.DefaultCurrency
		return &defaulted, true, nil
	}
	return nil, false, nil
}

func validateDocumentLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Errorf("%w: documentLink is required", ErrInvalidInput)
	}
	if len(link) > 500 {
		return fmt.Errorf("%w: documentLink must not exceed 500 characters", ErrInvalidInput)
	}
	return nil
}
