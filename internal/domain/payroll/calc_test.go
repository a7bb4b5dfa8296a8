package payroll

import (
	"testing"

	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subtypePtr(s concept.ConceptSubtype) *concept.ConceptSubtype { return &s }

func pctPtr(p float64) *decimal.Decimal {
	d := decimal.NewFromFloat(p)
	return &d
}

func testCatalog() []concept.PayConcept {
	return []concept.PayConcept{
		{ID: "c-basic", Code: "SALARIO_BASICO", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeBasic), IsActive: true},
		{ID: "c-hed", Code: "HED", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeOvertimeDay), IsActive: true},
		{ID: "c-hef", Code: "HEF", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeOvertimeHoliday), IsActive: true},
		{ID: "c-aux", Code: "AUX_TRANSPORTE", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeTransportAllowance), IsActive: true},
		{ID: "c-salud", Code: "SALUD", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypeHealthDeduction), Percentage: pctPtr(4), IsActive: true},
		{ID: "c-pension", Code: "PENSION", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypePensionDeduction), Percentage: pctPtr(4), IsActive: true},
		{ID: "c-otro-dev", Code: "OTROS_DEV", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeOther), IsActive: true},
		{ID: "c-otro-ded", Code: "OTROS_DED", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypeOther), IsActive: true},
	}
}

func sumByType(lines []PayLineItem, t concept.ConceptType) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.Type == t {
			total = total.Add(l.LineTotal)
		}
	}
	return total
}

func TestComputeFullMonth(t *testing.T) {
	// salary 2,400,000, 30 days, health 4% + pension 4%
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      testCatalog(),
	})

	assert.True(t, result.BasicPay.Equal(decimal.NewFromInt(2400000)), "basic pay = %s", result.BasicPay)
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2400000)))
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(192000)))
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(2208000)))

	var health, pension decimal.Decimal
	for _, l := range result.Lines {
		switch l.ConceptID {
		case "c-salud":
			health = l.LineTotal
		case "c-pension":
			pension = l.LineTotal
		}
	}
	assert.True(t, health.Equal(decimal.NewFromInt(96000)), "health = %s", health)
	assert.True(t, pension.Equal(decimal.NewFromInt(96000)), "pension = %s", pension)
}

func TestComputeHalfMonthRule(t *testing.T) {
	// days paid 15 takes exactly half the monthly salary, regardless of the
	// 30-day proration (2,400,000/30*15 happens to match; an odd salary
	// would not).
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      15,
		Concepts:      testCatalog(),
	})

	assert.True(t, result.BasicPay.Equal(decimal.NewFromInt(1200000)))
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(96000)))
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(1104000)))

	// An amount that is not divisible by 30: half-month still divides by 2.
	odd := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(1000001),
		DaysPaid:      15,
		Concepts:      testCatalog(),
	})
	assert.True(t, odd.BasicPay.Equal(decimal.NewFromInt(500001)), "basic = %s", odd.BasicPay)
}

func TestComputeTransportAllowanceNotInDeductionBase(t *testing.T) {
	result := Compute(CalcInput{
		MonthlySalary:      decimal.NewFromInt(2400000),
		DaysPaid:           30,
		TransportEligible:  true,
		TransportAllowance: decimal.NewFromInt(200000),
		Concepts:           testCatalog(),
	})

	// allowance line present at full monthly value for 30 days
	var allowance decimal.Decimal
	for _, l := range result.Lines {
		if l.ConceptID == "c-aux" {
			allowance = l.LineTotal
		}
	}
	assert.True(t, allowance.Equal(decimal.NewFromInt(200000)), "allowance = %s", allowance)

	// earnings include the allowance, but health/pension stay on basic pay
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2600000)))
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(192000)))
}

func TestComputeAllowanceRequiresEligibility(t *testing.T) {
	result := Compute(CalcInput{
		MonthlySalary:      decimal.NewFromInt(2400000),
		DaysPaid:           30,
		TransportEligible:  false,
		TransportAllowance: decimal.NewFromInt(200000),
		Concepts:           testCatalog(),
	})
	for _, l := range result.Lines {
		assert.NotEqual(t, "c-aux", l.ConceptID)
	}
}

func TestComputeOvertimeFeedsDeductionBase(t *testing.T) {
	// overtime totals are taken from the ledger as stored, and health and
	// pension contribute over basic + overtime
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      testCatalog(),
		Overtime: []overtime.OvertimeEntry{
			{ID: "ot-1", Type: overtime.OvertimeTypeDay, Hours: decimal.NewFromInt(10), HourlyValue: decimal.NewFromInt(12500), LineTotal: decimal.NewFromInt(125000)},
			{ID: "ot-2", Type: overtime.OvertimeTypeHoliday, Hours: decimal.NewFromInt(4), HourlyValue: decimal.NewFromInt(17500), LineTotal: decimal.NewFromInt(70000)},
		},
	})

	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2595000)))

	base := decimal.NewFromInt(2595000) // basic + overtime
	expected := base.Mul(decimal.NewFromInt(4)).Div(decimal.NewFromInt(100)).Round(0)
	var health decimal.Decimal
	for _, l := range result.Lines {
		if l.ConceptID == "c-salud" {
			health = l.LineTotal
		}
	}
	assert.True(t, health.Equal(expected), "health = %s, want %s", health, expected)
}

func TestComputeOvertimeWithoutConceptIsDropped(t *testing.T) {
	catalog := []concept.PayConcept{
		{ID: "c-basic", Code: "SALARIO_BASICO", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeBasic), IsActive: true},
	}
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      catalog,
		Overtime: []overtime.OvertimeEntry{
			{ID: "ot-1", Type: overtime.OvertimeTypeDay, Hours: decimal.NewFromInt(10), HourlyValue: decimal.NewFromInt(12500), LineTotal: decimal.NewFromInt(125000)},
		},
	})
	assert.Len(t, result.Lines, 1)
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2400000)))
}

func TestComputeAncillaryPayments(t *testing.T) {
	desc := "commission"
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      testCatalog(),
		Ancillary: []ancillary.AncillaryPayment{
			{ID: "ap-1", Label: "Comision", Description: &desc, Amount: decimal.NewFromInt(300000), Type: ancillary.PaymentTypeIncome},
			{ID: "ap-2", Label: "Prestamo", Amount: decimal.NewFromInt(100000), Type: ancillary.PaymentTypeDeduction},
		},
	})

	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2700000)))
	// 192,000 mandatory + 100,000 ancillary deduction
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(292000)))
	assert.Empty(t, result.SkippedPaymentIDs)
}

func TestComputeAncillaryWithoutOtherConceptIsSkipped(t *testing.T) {
	catalog := []concept.PayConcept{
		{ID: "c-basic", Code: "SALARIO_BASICO", Type: concept.ConceptTypeEarning, Subtype: subtypePtr(concept.SubtypeBasic), IsActive: true},
	}
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      catalog,
		Ancillary: []ancillary.AncillaryPayment{
			{ID: "ap-1", Label: "Comision", Amount: decimal.NewFromInt(300000), Type: ancillary.PaymentTypeIncome},
		},
	})

	assert.Equal(t, []string{"ap-1"}, result.SkippedPaymentIDs)
	assert.True(t, result.TotalEarnings.Equal(decimal.NewFromInt(2400000)))
}

func TestComputeTotalsAlwaysMatchLines(t *testing.T) {
	result := Compute(CalcInput{
		MonthlySalary:      decimal.NewFromInt(1857334),
		DaysPaid:           23,
		TransportEligible:  true,
		TransportAllowance: decimal.NewFromInt(162000),
		Concepts:           testCatalog(),
		Overtime: []overtime.OvertimeEntry{
			{ID: "ot-1", Type: overtime.OvertimeTypeDay, Hours: decimal.NewFromFloat(2.5), HourlyValue: decimal.NewFromInt(9674), LineTotal: decimal.NewFromInt(24185)},
		},
		Ancillary: []ancillary.AncillaryPayment{
			{ID: "ap-1", Label: "Bono", Amount: decimal.NewFromInt(50000), Type: ancillary.PaymentTypeIncome},
		},
	})

	assert.True(t, result.TotalEarnings.Equal(sumByType(result.Lines, concept.ConceptTypeEarning)))
	assert.True(t, result.TotalDeductions.Equal(sumByType(result.Lines, concept.ConceptTypeDeduction)))
	assert.True(t, result.NetPay.Equal(result.TotalEarnings.Sub(result.TotalDeductions)))

	// every line total is a whole currency unit except pre-valued ledger
	// lines, which pass through as stored
	for _, l := range result.Lines {
		if l.ConceptID == "c-basic" || l.ConceptID == "c-salud" || l.ConceptID == "c-pension" || l.ConceptID == "c-aux" {
			assert.True(t, l.LineTotal.Equal(l.LineTotal.Round(0)), "line %s not rounded: %s", l.ConceptID, l.LineTotal)
		}
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	input := CalcInput{
		MonthlySalary:      decimal.NewFromInt(2400000),
		DaysPaid:           30,
		TransportEligible:  true,
		TransportAllowance: decimal.NewFromInt(162000),
		Concepts:           testCatalog(),
		Overtime: []overtime.OvertimeEntry{
			{ID: "ot-1", Type: overtime.OvertimeTypeDay, Hours: decimal.NewFromInt(3), HourlyValue: decimal.NewFromInt(12500), LineTotal: decimal.NewFromInt(37500)},
		},
	}

	first := Compute(input)
	second := Compute(input)

	require.Equal(t, len(first.Lines), len(second.Lines))
	for i := range first.Lines {
		assert.Equal(t, first.Lines[i].ConceptID, second.Lines[i].ConceptID)
		assert.True(t, first.Lines[i].Quantity.Equal(second.Lines[i].Quantity))
		assert.True(t, first.Lines[i].UnitValue.Equal(second.Lines[i].UnitValue))
		assert.True(t, first.Lines[i].LineTotal.Equal(second.Lines[i].LineTotal))
	}
	assert.True(t, first.TotalEarnings.Equal(second.TotalEarnings))
	assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
	assert.True(t, first.NetPay.Equal(second.NetPay))
}

func TestComputeInactiveDeductionIgnored(t *testing.T) {
	catalog := testCatalog()
	catalog = append(catalog, concept.PayConcept{
		ID: "c-old", Code: "RETIRED", Type: concept.ConceptTypeDeduction,
		Percentage: pctPtr(10), IsActive: false,
	})
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      catalog,
	})
	for _, l := range result.Lines {
		assert.NotEqual(t, "c-old", l.ConceptID)
	}
}

func TestComputeNoBasicConceptStillDeducts(t *testing.T) {
	// basic pay drives the deduction base even when the catalog has no
	// BASIC concept to carry the earning line
	catalog := []concept.PayConcept{
		{ID: "c-salud", Code: "SALUD", Type: concept.ConceptTypeDeduction, Subtype: subtypePtr(concept.SubtypeHealthDeduction), Percentage: pctPtr(4), IsActive: true},
	}
	result := Compute(CalcInput{
		MonthlySalary: decimal.NewFromInt(2400000),
		DaysPaid:      30,
		Concepts:      catalog,
	})
	require.Len(t, result.Lines, 1)
	assert.True(t, result.Lines[0].LineTotal.Equal(decimal.NewFromInt(96000)))
	assert.True(t, result.NetPay.Equal(decimal.NewFromInt(-96000)))
}

func TestProrateMonthly(t *testing.T) {
	cases := []struct {
		monthly int64
		days    int
		want    int64
	}{
		{2400000, 30, 2400000},
		{2400000, 15, 1200000},
		{2400000, 20, 1600000},
		{1000001, 15, 500001},  // half-month divides by 2, not by 30
		{1000000, 7, 233333},   // 1,000,000/30*7 = 233,333.33 -> 233,333
		{1000000, 1, 33333},    // 33,333.33 -> 33,333
		{1000000, 29, 966667},  // 966,666.67 -> 966,667
	}
	for _, c := range cases {
		got := ProrateMonthly(decimal.NewFromInt(c.monthly), c.days)
		assert.True(t, got.Equal(decimal.NewFromInt(c.want)),
			"ProrateMonthly(%d, %d) = %s, want %d", c.monthly, c.days, got, c.want)
	}
}
