package planning

import (
	"fmt"
	"strconv"

	"github.com/planware/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InputField identifies a single field of PlanInputs
// Revision requests reference fields by these keys
type InputField string

const (
	FieldIncomeGoal                  InputField = "income_goal"
	FieldPurchaseBps                 InputField = "purchase_bps"
	FieldRefinanceBps                InputField = "refinance_bps"
	FieldPurchasePercentage          InputField = "purchase_percentage"
	FieldAvgLoanAmount               InputField = "avg_loan_amount"
	FieldPullThroughPurchase         InputField = "pull_through_purchase"
	FieldPullThroughRefinance        InputField = "pull_through_refinance"
	FieldConversionRatePurchase      InputField = "conversion_rate_purchase"
	FieldConversionRateRefinance     InputField = "conversion_rate_refinance"
	FieldLeadsFromPartnersPercentage InputField = "leads_from_partners_percentage"
	FieldLeadsPerPartnerPerMonth     InputField = "leads_per_partner_per_month"
)

// AllInputFields lists every revisable input field
var AllInputFields = []InputField{
	FieldIncomeGoal,
	FieldPurchaseBps,
	FieldRefinanceBps,
	FieldPurchasePercentage,
	FieldAvgLoanAmount,
	FieldPullThroughPurchase,
	FieldPullThroughRefinance,
	FieldConversionRatePurchase,
	FieldConversionRateRefinance,
	FieldLeadsFromPartnersPercentage,
	FieldLeadsPerPartnerPerMonth,
}

// IsValid checks if the field key names a known input field
func (f InputField) IsValid() bool {
	for _, known := range AllInputFields {
		if f == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the field key
func (f InputField) String() string {
	return string(f)
}

// PlanInputs is the immutable input set a business plan is built from.
// Derived goals are always recomputed from these values, never stored.
type PlanInputs struct {
	IncomeGoal                  decimal.Decimal `json:"income_goal"`
	PurchaseBps                 int             `json:"purchase_bps"`
	RefinanceBps                int             `json:"refinance_bps"`
	PurchasePercentage          decimal.Decimal `json:"purchase_percentage"`
	AvgLoanAmount               decimal.Decimal `json:"avg_loan_amount"`
	PullThroughPurchase         decimal.Decimal `json:"pull_through_purchase"`
	PullThroughRefinance        decimal.Decimal `json:"pull_through_refinance"`
	ConversionRatePurchase      decimal.Decimal `json:"conversion_rate_purchase"`
	ConversionRateRefinance     decimal.Decimal `json:"conversion_rate_refinance"`
	LeadsFromPartnersPercentage decimal.Decimal `json:"leads_from_partners_percentage"`
	LeadsPerPartnerPerMonth     decimal.Decimal `json:"leads_per_partner_per_month"`
}

var one = decimal.NewFromInt(1)

// Validate checks every field against its domain range and reports
// all violations at once rather than stopping at the first
func (in PlanInputs) Validate() error {
	verr := shared.NewValidationError()

	if in.IncomeGoal.IsNegative() {
		verr.Add(FieldIncomeGoal.String(), "income goal cannot be negative")
	}
	if in.PurchaseBps < 0 {
		verr.Add(FieldPurchaseBps.String(), "purchase commission cannot be negative")
	}
	if in.RefinanceBps < 0 {
		verr.Add(FieldRefinanceBps.String(), "refinance commission cannot be negative")
	}
	if in.PurchasePercentage.IsNegative() || in.PurchasePercentage.GreaterThan(one) {
		verr.Add(FieldPurchasePercentage.String(), "purchase percentage must be between 0 and 1")
	}
	if !in.AvgLoanAmount.IsPositive() {
		verr.Add(FieldAvgLoanAmount.String(), "average loan amount must be positive")
	}
	validateRate(verr, FieldPullThroughPurchase, in.PullThroughPurchase)
	validateRate(verr, FieldPullThroughRefinance, in.PullThroughRefinance)
	validateRate(verr, FieldConversionRatePurchase, in.ConversionRatePurchase)
	validateRate(verr, FieldConversionRateRefinance, in.ConversionRateRefinance)
	if in.LeadsFromPartnersPercentage.IsNegative() || in.LeadsFromPartnersPercentage.GreaterThan(one) {
		verr.Add(FieldLeadsFromPartnersPercentage.String(), "partner lead percentage must be between 0 and 1")
	}
	if !in.LeadsPerPartnerPerMonth.IsPositive() {
		verr.Add(FieldLeadsPerPartnerPerMonth.String(), "leads per partner per month must be positive")
	}

	if verr.HasViolations() {
		return verr
	}
	return nil
}

// validateRate checks a yield-rate field, which must lie in (0, 1]
func validateRate(verr *shared.ValidationError, field InputField, rate decimal.Decimal) {
	if !rate.IsPositive() || rate.GreaterThan(one) {
		verr.Add(field.String(), "rate must be greater than 0 and at most 1")
	}
}

// Value returns the current value of the named field as its canonical
// string form, used to snapshot the pre-change value of a revision
func (in PlanInputs) Value(field InputField) (string, error) {
	switch field {
	case FieldIncomeGoal:
		return in.IncomeGoal.String(), nil
	case FieldPurchaseBps:
		return strconv.Itoa(in.PurchaseBps), nil
	case FieldRefinanceBps:
		return strconv.Itoa(in.RefinanceBps), nil
	case FieldPurchasePercentage:
		return in.PurchasePercentage.String(), nil
	case FieldAvgLoanAmount:
		return in.AvgLoanAmount.String(), nil
	case FieldPullThroughPurchase:
		return in.PullThroughPurchase.String(), nil
	case FieldPullThroughRefinance:
		return in.PullThroughRefinance.String(), nil
	case FieldConversionRatePurchase:
		return in.ConversionRatePurchase.String(), nil
	case FieldConversionRateRefinance:
		return in.ConversionRateRefinance.String(), nil
	case FieldLeadsFromPartnersPercentage:
		return in.LeadsFromPartnersPercentage.String(), nil
	case FieldLeadsPerPartnerPerMonth:
		return in.LeadsPerPartnerPerMonth.String(), nil
	}
	return "", shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("unknown input field: %s", field))
}

// WithValue returns a copy of the input set with the named field
// replaced by the parsed value. The resulting set is re-validated in
// full so a revision can never push a plan out of its domain ranges.
func (in PlanInputs) WithValue(field InputField, value string) (PlanInputs, error) {
	next := in

	switch field {
	case FieldPurchaseBps, FieldRefinanceBps:
		n, err := strconv.Atoi(value)
		if err != nil {
			return PlanInputs{}, shared.NewValidationError().Add(field.String(), "value must be an integer")
		}
		if field == FieldPurchaseBps {
			next.PurchaseBps = n
		} else {
			next.RefinanceBps = n
		}
	default:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return PlanInputs{}, shared.NewValidationError().Add(field.String(), "value must be a decimal number")
		}
		switch field {
		case FieldIncomeGoal:
			next.IncomeGoal = d
		case FieldPurchasePercentage:
			next.PurchasePercentage = d
		case FieldAvgLoanAmount:
			next.AvgLoanAmount = d
		case FieldPullThroughPurchase:
			next.PullThroughPurchase = d
		case FieldPullThroughRefinance:
			next.PullThroughRefinance = d
		case FieldConversionRatePurchase:
			next.ConversionRatePurchase = d
		case FieldConversionRateRefinance:
			next.ConversionRateRefinance = d
		case FieldLeadsFromPartnersPercentage:
			next.LeadsFromPartnersPercentage = d
		case FieldLeadsPerPartnerPerMonth:
			next.LeadsPerPartnerPerMonth = d
		default:
			return PlanInputs{}, shared.NewDomainError("UNKNOWN_FIELD", fmt.Sprintf("unknown input field: %s", field))
		}
	}

	if err := next.Validate(); err != nil {
		return PlanInputs{}, err
	}
	return next, nil
}
