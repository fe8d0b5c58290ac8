package planning

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers
func validInputs() PlanInputs {
	return PlanInputs{
		IncomeGoal:                  decimal.NewFromInt(250000),
		PurchaseBps:                 200,
		RefinanceBps:                150,
		PurchasePercentage:          decimal.NewFromFloat(0.6),
		AvgLoanAmount:               decimal.NewFromInt(425000),
		PullThroughPurchase:         decimal.NewFromFloat(0.5),
		PullThroughRefinance:        decimal.NewFromFloat(0.5),
		ConversionRatePurchase:      decimal.NewFromFloat(0.5),
		ConversionRateRefinance:     decimal.NewFromFloat(0.5),
		LeadsFromPartnersPercentage: decimal.NewFromFloat(0.5),
		LeadsPerPartnerPerMonth:     decimal.NewFromInt(3),
	}
}

func TestCalculateGoals_WorkedExample(t *testing.T) {
	goals := CalculateGoals(validInputs())

	// weighted commission = 0.6*0.02 + 0.4*0.015 = 0.018
	assert.True(t, goals.WeightedCommission.Equal(decimal.NewFromFloat(0.018)),
		"weighted commission = %s", goals.WeightedCommission)

	// annual volume = 250000 / 0.018 ≈ 13,888,888.89
	assert.InDelta(t, 13888888.89, goals.TotalVolume.Annual.InexactFloat64(), 0.01)
	assert.InDelta(t, 1157407.41, goals.TotalVolume.Monthly.InexactFloat64(), 0.01)
	assert.InDelta(t, 289351.85, goals.TotalVolume.Weekly.InexactFloat64(), 0.01)
	assert.InDelta(t, 57870.37, goals.TotalVolume.Daily.InexactFloat64(), 0.01)

	// units rounded per period from that period's own volume
	assert.Equal(t, PeriodCount{Annual: 33, Monthly: 3, Weekly: 1, Daily: 0}, goals.TotalUnits)

	// channel split of volume
	assert.InDelta(t, 8333333.33, goals.Purchase.Volume.Annual.InexactFloat64(), 0.01)
	assert.InDelta(t, 5555555.56, goals.Refinance.Volume.Annual.InexactFloat64(), 0.01)

	assert.Equal(t, PeriodCount{Annual: 20, Monthly: 2, Weekly: 0, Daily: 0}, goals.Purchase.Units)
	assert.Equal(t, PeriodCount{Annual: 13, Monthly: 1, Weekly: 0, Daily: 0}, goals.Refinance.Units)

	// applications = channel units / pull-through, periodized
	assert.Equal(t, PeriodCount{Annual: 40, Monthly: 3, Weekly: 1, Daily: 0}, goals.Purchase.Applications)
	assert.Equal(t, PeriodCount{Annual: 26, Monthly: 2, Weekly: 1, Daily: 0}, goals.Refinance.Applications)
	assert.Equal(t, PeriodCount{Annual: 66, Monthly: 5, Weekly: 2, Daily: 0}, goals.TotalApplications)

	// leads = channel applications / conversion rate, periodized
	assert.Equal(t, PeriodCount{Annual: 80, Monthly: 7, Weekly: 2, Daily: 0}, goals.Purchase.Leads)
	assert.Equal(t, PeriodCount{Annual: 52, Monthly: 4, Weekly: 1, Daily: 0}, goals.Refinance.Leads)
	assert.Equal(t, PeriodCount{Annual: 132, Monthly: 11, Weekly: 3, Daily: 0}, goals.TotalLeads)

	// lead-source split and partners needed
	assert.Equal(t, int64(66), goals.PartnerLeadsAnnual)
	assert.Equal(t, int64(66), goals.SelfGenLeadsAnnual)
	assert.Equal(t, int64(6), goals.PartnerLeadsMonthly)
	assert.Equal(t, int64(6), goals.SelfGenLeadsMonthly)
	assert.Equal(t, int64(2), goals.PartnersNeeded)
}

func TestCalculateGoals_ZeroIncomeGoal(t *testing.T) {
	in := validInputs()
	in.IncomeGoal = decimal.Zero

	goals := CalculateGoals(in)

	assert.True(t, goals.TotalVolume.Annual.IsZero())
	assert.True(t, goals.TotalVolume.Daily.IsZero())
	assert.Equal(t, PeriodCount{}, goals.TotalUnits)
	assert.Equal(t, PeriodCount{}, goals.TotalApplications)
	assert.Equal(t, PeriodCount{}, goals.TotalLeads)
	assert.True(t, goals.Purchase.Volume.Annual.IsZero())
	assert.True(t, goals.Refinance.Volume.Annual.IsZero())
	assert.Equal(t, int64(0), goals.PartnerLeadsAnnual)
	assert.Equal(t, int64(0), goals.SelfGenLeadsAnnual)
	assert.Equal(t, int64(0), goals.PartnersNeeded)
}

func TestCalculateGoals_AllPurchase(t *testing.T) {
	in := validInputs()
	in.PurchasePercentage = decimal.NewFromInt(1)

	goals := CalculateGoals(in)

	// refinance share is exactly zero, so every refinance figure must
	// be exactly zero, not merely small
	assert.True(t, goals.Refinance.Volume.Annual.IsZero())
	assert.True(t, goals.Refinance.Volume.Daily.IsZero())
	assert.Equal(t, PeriodCount{}, goals.Refinance.Units)
	assert.Equal(t, PeriodCount{}, goals.Refinance.Applications)
	assert.Equal(t, PeriodCount{}, goals.Refinance.Leads)

	// purchase carries the whole volume
	assert.True(t, goals.Purchase.Volume.Annual.Equal(goals.TotalVolume.Annual))
	assert.Equal(t, goals.Purchase.Applications, goals.TotalApplications)
	assert.Equal(t, goals.Purchase.Leads, goals.TotalLeads)
}

func TestCalculateGoals_ChannelVolumesSumExactly(t *testing.T) {
	fractions := []float64{0, 0.1, 0.25, 0.5, 0.6, 0.75, 0.99, 1}

	for _, p := range fractions {
		in := validInputs()
		in.PurchasePercentage = decimal.NewFromFloat(p)

		goals := CalculateGoals(in)

		sum := goals.Purchase.Volume.Annual.Add(goals.Refinance.Volume.Annual)
		assert.True(t, sum.Equal(goals.TotalVolume.Annual),
			"p=%v: %s + %s != %s", p, goals.Purchase.Volume.Annual, goals.Refinance.Volume.Annual, goals.TotalVolume.Annual)
	}
}

func TestCalculateGoals_LeadSourceSplitSumsExactly(t *testing.T) {
	// self-generated leads are constructed as a remainder, so the two
	// sources always sum exactly to the total for any fraction
	fractions := []float64{0, 0.1, 0.33, 0.5, 0.667, 0.9, 1}

	for _, p := range fractions {
		in := validInputs()
		in.LeadsFromPartnersPercentage = decimal.NewFromFloat(p)

		goals := CalculateGoals(in)

		assert.Equal(t, goals.TotalLeads.Annual, goals.PartnerLeadsAnnual+goals.SelfGenLeadsAnnual,
			"fraction %v", p)
	}
}

func TestCalculateGoals_MonotonicInIncomeGoal(t *testing.T) {
	var prevVolume decimal.Decimal
	var prevUnits, prevLeads int64

	for _, income := range []int64{0, 50000, 100000, 250000, 500000, 1000000, 5000000} {
		in := validInputs()
		in.IncomeGoal = decimal.NewFromInt(income)

		goals := CalculateGoals(in)

		assert.True(t, goals.TotalVolume.Annual.GreaterThanOrEqual(prevVolume),
			"volume decreased at income %d", income)
		assert.GreaterOrEqual(t, goals.TotalUnits.Annual, prevUnits,
			"units decreased at income %d", income)
		assert.GreaterOrEqual(t, goals.TotalLeads.Annual, prevLeads,
			"leads decreased at income %d", income)

		prevVolume = goals.TotalVolume.Annual
		prevUnits = goals.TotalUnits.Annual
		prevLeads = goals.TotalLeads.Annual
	}
}

func TestCalculateGoals_ZeroDivisorGuards(t *testing.T) {
	t.Run("zero commission yields zero volume", func(t *testing.T) {
		in := validInputs()
		in.PurchaseBps = 0
		in.RefinanceBps = 0

		goals := CalculateGoals(in)

		assert.True(t, goals.WeightedCommission.IsZero())
		assert.True(t, goals.TotalVolume.Annual.IsZero())
		assert.Equal(t, int64(0), goals.TotalLeads.Annual)
	})

	t.Run("zero average loan amount yields zero units", func(t *testing.T) {
		in := validInputs()
		in.AvgLoanAmount = decimal.Zero

		goals := CalculateGoals(in)

		assert.Equal(t, PeriodCount{}, goals.TotalUnits)
		assert.Equal(t, PeriodCount{}, goals.Purchase.Units)
	})

	t.Run("zero pull-through yields zero applications", func(t *testing.T) {
		in := validInputs()
		in.PullThroughPurchase = decimal.Zero

		goals := CalculateGoals(in)

		assert.Equal(t, PeriodCount{}, goals.Purchase.Applications)
		assert.Equal(t, PeriodCount{}, goals.Purchase.Leads)
		// refinance channel is unaffected
		assert.Equal(t, int64(26), goals.Refinance.Applications.Annual)
	})

	t.Run("zero conversion rate yields zero leads", func(t *testing.T) {
		in := validInputs()
		in.ConversionRateRefinance = decimal.Zero

		goals := CalculateGoals(in)

		assert.Equal(t, PeriodCount{}, goals.Refinance.Leads)
		assert.Equal(t, int64(80), goals.Purchase.Leads.Annual)
	})

	t.Run("zero leads per partner yields zero partners", func(t *testing.T) {
		in := validInputs()
		in.LeadsPerPartnerPerMonth = decimal.Zero

		goals := CalculateGoals(in)

		assert.Equal(t, int64(0), goals.PartnersNeeded)
	})
}

func TestCalculateGoals_Deterministic(t *testing.T) {
	in := validInputs()

	first := CalculateGoals(in)
	second := CalculateGoals(in)

	require.Equal(t, first.TotalUnits, second.TotalUnits)
	require.Equal(t, first.TotalLeads, second.TotalLeads)
	require.True(t, first.TotalVolume.Annual.Equal(second.TotalVolume.Annual))
}
