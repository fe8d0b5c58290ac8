package planning

import "github.com/shopspring/decimal"

var (
	bpsDenominator = decimal.NewFromInt(10000)
	monthsPerYear  = decimal.NewFromInt(12)
	weeksPerMonth  = decimal.NewFromInt(4)
	daysPerWeek    = decimal.NewFromInt(5)
)

// PeriodVolume holds a dollar-volume figure decomposed across planning
// periods. Monthly is annual/12, weekly is monthly/4, daily is weekly/5
// (a 5-day work week).
type PeriodVolume struct {
	Annual  decimal.Decimal `json:"annual"`
	Monthly decimal.Decimal `json:"monthly"`
	Weekly  decimal.Decimal `json:"weekly"`
	Daily   decimal.Decimal `json:"daily"`
}

// PeriodCount holds an integer figure (units, applications, leads)
// decomposed across planning periods. Each period is rounded
// independently from that period's own underlying value, so the
// shorter periods will not always multiply back to the annual figure.
// That drift is accepted rather than corrected.
type PeriodCount struct {
	Annual  int64 `json:"annual"`
	Monthly int64 `json:"monthly"`
	Weekly  int64 `json:"weekly"`
	Daily   int64 `json:"daily"`
}

// ChannelGoals holds the funnel figures for one transaction channel
type ChannelGoals struct {
	Volume       PeriodVolume `json:"volume"`
	Units        PeriodCount  `json:"units"`
	Applications PeriodCount  `json:"applications"`
	Leads        PeriodCount  `json:"leads"`
}

// CalculatedGoals is the fully decomposed funnel derived from a plan's
// inputs. It is recomputed on every read and never persisted.
type CalculatedGoals struct {
	WeightedCommission decimal.Decimal `json:"weighted_commission"`

	TotalVolume PeriodVolume `json:"total_volume"`
	TotalUnits  PeriodCount  `json:"total_units"`

	Purchase  ChannelGoals `json:"purchase"`
	Refinance ChannelGoals `json:"refinance"`

	TotalApplications PeriodCount `json:"total_applications"`
	TotalLeads        PeriodCount `json:"total_leads"`

	PartnerLeadsAnnual  int64 `json:"partner_leads_annual"`
	PartnerLeadsMonthly int64 `json:"partner_leads_monthly"`
	SelfGenLeadsAnnual  int64 `json:"self_gen_leads_annual"`
	SelfGenLeadsMonthly int64 `json:"self_gen_leads_monthly"`

	PartnersNeeded int64 `json:"partners_needed"`
}

// CalculateGoals derives the full funnel from the given inputs.
// It is pure and total: it never errors, and any figure whose divisor
// is zero degrades to zero instead. Range validation is the caller's
// responsibility via PlanInputs.Validate.
func CalculateGoals(in PlanInputs) CalculatedGoals {
	refinancePercentage := one.Sub(in.PurchasePercentage)

	purchaseRate := decimal.NewFromInt(int64(in.PurchaseBps)).Div(bpsDenominator)
	refinanceRate := decimal.NewFromInt(int64(in.RefinanceBps)).Div(bpsDenominator)
	weightedCommission := in.PurchasePercentage.Mul(purchaseRate).
		Add(refinancePercentage.Mul(refinanceRate))

	annualVolume := decimal.Zero
	if weightedCommission.IsPositive() {
		annualVolume = in.IncomeGoal.Div(weightedCommission)
	}

	purchaseVolume := annualVolume.Mul(in.PurchasePercentage)
	refinanceVolume := annualVolume.Mul(refinancePercentage)

	totalVolume := decomposeVolume(annualVolume)
	totalUnits := unitsFromVolume(totalVolume, in.AvgLoanAmount)

	purchase := channelFunnel(purchaseVolume, in.AvgLoanAmount, in.PullThroughPurchase, in.ConversionRatePurchase)
	refinance := channelFunnel(refinanceVolume, in.AvgLoanAmount, in.PullThroughRefinance, in.ConversionRateRefinance)

	totalApplications := sumCounts(purchase.Applications, refinance.Applications)
	totalLeads := sumCounts(purchase.Leads, refinance.Leads)

	// Partner leads round from the total; self-generated leads are the
	// remainder so the two always sum exactly to the total.
	partnerAnnual := roundToInt(decimal.NewFromInt(totalLeads.Annual).Mul(in.LeadsFromPartnersPercentage))
	selfGenAnnual := totalLeads.Annual - partnerAnnual
	partnerMonthly := roundToInt(decimal.NewFromInt(partnerAnnual).Div(monthsPerYear))
	selfGenMonthly := roundToInt(decimal.NewFromInt(selfGenAnnual).Div(monthsPerYear))

	partnersNeeded := int64(0)
	if in.LeadsPerPartnerPerMonth.IsPositive() {
		partnersNeeded = decimal.NewFromInt(partnerMonthly).
			Div(in.LeadsPerPartnerPerMonth).
			Ceil().
			IntPart()
	}

	return CalculatedGoals{
		WeightedCommission:  weightedCommission,
		TotalVolume:         totalVolume,
		TotalUnits:          totalUnits,
		Purchase:            purchase,
		Refinance:           refinance,
		TotalApplications:   totalApplications,
		TotalLeads:          totalLeads,
		PartnerLeadsAnnual:  partnerAnnual,
		PartnerLeadsMonthly: partnerMonthly,
		SelfGenLeadsAnnual:  selfGenAnnual,
		SelfGenLeadsMonthly: selfGenMonthly,
		PartnersNeeded:      partnersNeeded,
	}
}

// channelFunnel derives one channel's volume, units, applications and
// leads. Each funnel stage divides the prior stage's rounded annual
// figure by a yield rate and decomposes the result across periods.
func channelFunnel(annualVolume, avgLoanAmount, pullThrough, conversionRate decimal.Decimal) ChannelGoals {
	volume := decomposeVolume(annualVolume)
	units := unitsFromVolume(volume, avgLoanAmount)
	applications := decomposeCount(divideStage(units.Annual, pullThrough))
	leads := decomposeCount(divideStage(applications.Annual, conversionRate))

	return ChannelGoals{
		Volume:       volume,
		Units:        units,
		Applications: applications,
		Leads:        leads,
	}
}

// decomposeVolume splits an annual dollar figure into monthly, weekly
// and daily figures without rounding
func decomposeVolume(annual decimal.Decimal) PeriodVolume {
	monthly := annual.Div(monthsPerYear)
	weekly := monthly.Div(weeksPerMonth)
	return PeriodVolume{
		Annual:  annual,
		Monthly: monthly,
		Weekly:  weekly,
		Daily:   weekly.Div(daysPerWeek),
	}
}

// unitsFromVolume derives unit counts from volume, rounding each
// period from that period's own volume figure
func unitsFromVolume(volume PeriodVolume, avgLoanAmount decimal.Decimal) PeriodCount {
	if !avgLoanAmount.IsPositive() {
		return PeriodCount{}
	}
	return PeriodCount{
		Annual:  roundToInt(volume.Annual.Div(avgLoanAmount)),
		Monthly: roundToInt(volume.Monthly.Div(avgLoanAmount)),
		Weekly:  roundToInt(volume.Weekly.Div(avgLoanAmount)),
		Daily:   roundToInt(volume.Daily.Div(avgLoanAmount)),
	}
}

// divideStage converts one funnel stage's annual count into the next
// stage's unrounded annual value, guarding a zero rate
func divideStage(annualCount int64, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(annualCount).Div(rate)
}

// decomposeCount rounds an unrounded annual figure into per-period
// counts, each period independently
func decomposeCount(annual decimal.Decimal) PeriodCount {
	monthly := annual.Div(monthsPerYear)
	weekly := monthly.Div(weeksPerMonth)
	daily := weekly.Div(daysPerWeek)
	return PeriodCount{
		Annual:  roundToInt(annual),
		Monthly: roundToInt(monthly),
		Weekly:  roundToInt(weekly),
		Daily:   roundToInt(daily),
	}
}

func sumCounts(a, b PeriodCount) PeriodCount {
	return PeriodCount{
		Annual:  a.Annual + b.Annual,
		Monthly: a.Monthly + b.Monthly,
		Weekly:  a.Weekly + b.Weekly,
		Daily:   a.Daily + b.Daily,
	}
}

// roundToInt rounds to the nearest integer, halves away from zero
func roundToInt(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
