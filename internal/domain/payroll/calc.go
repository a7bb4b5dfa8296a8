package payroll

import (
	"github.com/nominacloud/erp-backend-go/internal/domain/ancillary"
	"github.com/nominacloud/erp-backend-go/internal/domain/concept"
	"github.com/nominacloud/erp-backend-go/internal/domain/overtime"
	"github.com/shopspring/decimal"
)

// HalfMonthDays is the canonical semi-monthly period length. A record paid
// for exactly this many days gets half the monthly amount instead of the
// 30-day proration.
const HalfMonthDays = 15

// StandardMonthDays is the divisor for daily proration of monthly amounts.
const StandardMonthDays = 30

var (
	two           = decimal.NewFromInt(2)
	oneHundred    = decimal.NewFromInt(100)
	standardMonth = decimal.NewFromInt(StandardMonthDays)
)

// CalcInput carries everything the calculation needs, already tenant-scoped
// and approval-filtered by the caller.
type CalcInput struct {
	MonthlySalary      decimal.Decimal
	DaysPaid           int
	TransportEligible  bool
	TransportAllowance decimal.Decimal // monthly value from the parameter resolver
	Concepts           []concept.PayConcept
	Overtime           []overtime.OvertimeEntry    // approved entries only
	Ancillary          []ancillary.AncillaryPayment // approved entries only
}

// CalcResult is the full replacement line-item set plus header totals.
// SkippedPaymentIDs lists ancillary payments that had no matching OTHER
// concept and were left out of the totals.
type CalcResult struct {
	Lines             []PayLineItem
	BasicPay          decimal.Decimal
	TotalEarnings     decimal.Decimal
	TotalDeductions   decimal.Decimal
	NetPay            decimal.Decimal
	SkippedPaymentIDs []string
}

// ProrateMonthly scales a monthly amount to the days actually paid: half
// the amount for the canonical 15-day period, otherwise a 30-day proration.
// The result is rounded to the nearest whole currency unit.
func ProrateMonthly(monthly decimal.Decimal, daysPaid int) decimal.Decimal {
	if daysPaid == HalfMonthDays {
		return monthly.Div(two).Round(0)
	}
	return monthly.Div(standardMonth).Mul(decimal.NewFromInt(int64(daysPaid))).Round(0)
}

// Compute runs the calculation over pre-loaded inputs. It is deterministic:
// the same input always yields the same line-item set and totals. Line
// items come back without IDs; persistence assigns them.
func Compute(in CalcInput) CalcResult {
	var result CalcResult

	// 1. Basic pay. Computed even without a BASIC concept because it is the
	// base of every percentage deduction; the line is only emitted when the
	// catalog has somewhere to put it.
	result.BasicPay = ProrateMonthly(in.MonthlySalary, in.DaysPaid)
	if c := concept.FindBySubtype(in.Concepts, concept.ConceptTypeEarning, concept.SubtypeBasic); c != nil {
		result.Lines = append(result.Lines, PayLineItem{
			ConceptID: c.ID,
			Type:      concept.ConceptTypeEarning,
			Quantity:  decimal.NewFromInt(int64(in.DaysPaid)),
			UnitValue: in.MonthlySalary.Div(standardMonth),
			LineTotal: result.BasicPay,
		})
	}

	// 2. Overtime: pre-valued by the ledger, never repriced here.
	overtimeSubtotal := decimal.Zero
	for _, entry := range in.Overtime {
		subtype := concept.SubtypeOvertimeDay
		if entry.Type == overtime.OvertimeTypeHoliday {
			subtype = concept.SubtypeOvertimeHoliday
		}
		c := concept.FindBySubtype(in.Concepts, concept.ConceptTypeEarning, subtype)
		if c == nil {
			continue
		}
		result.Lines = append(result.Lines, PayLineItem{
			ConceptID: c.ID,
			Type:      concept.ConceptTypeEarning,
			Quantity:  entry.Hours,
			UnitValue: entry.HourlyValue,
			LineTotal: entry.LineTotal,
		})
		overtimeSubtotal = overtimeSubtotal.Add(entry.LineTotal)
	}

	// 3. Transport allowance, prorated like basic pay.
	if in.TransportEligible {
		if c := concept.FindBySubtype(in.Concepts, concept.ConceptTypeEarning, concept.SubtypeTransportAllowance); c != nil {
			allowance := ProrateMonthly(in.TransportAllowance, in.DaysPaid)
			result.Lines = append(result.Lines, PayLineItem{
				ConceptID: c.ID,
				Type:      concept.ConceptTypeEarning,
				Quantity:  decimal.NewFromInt(1),
				UnitValue: allowance,
				LineTotal: allowance,
			})
		}
	}

	// 4. Percentage deductions. Health and pension contribute over basic pay
	// plus overtime; every other percentage deduction applies to basic pay
	// alone. The transport allowance is never part of the base.
	deductionBase := result.BasicPay.Add(overtimeSubtotal)
	for i := range in.Concepts {
		c := &in.Concepts[i]
		if !c.IsActive || c.Type != concept.ConceptTypeDeduction || c.Percentage == nil {
			continue
		}
		base := result.BasicPay
		if c.Subtype != nil && (*c.Subtype == concept.SubtypeHealthDeduction || *c.Subtype == concept.SubtypePensionDeduction) {
			base = deductionBase
		}
		total := base.Mul(*c.Percentage).Div(oneHundred).Round(0)
		result.Lines = append(result.Lines, PayLineItem{
			ConceptID: c.ID,
			Type:      concept.ConceptTypeDeduction,
			Quantity:  decimal.NewFromInt(1),
			UnitValue: total,
			LineTotal: total,
		})
	}

	// 5. Ancillary payments pass through at their stored amount, attached to
	// the catalog's OTHER concept of the matching type.
	for _, payment := range in.Ancillary {
		lineType := concept.ConceptTypeEarning
		if payment.Type == ancillary.PaymentTypeDeduction {
			lineType = concept.ConceptTypeDeduction
		}
		c := concept.FindBySubtype(in.Concepts, lineType, concept.SubtypeOther)
		if c == nil {
			result.SkippedPaymentIDs = append(result.SkippedPaymentIDs, payment.ID)
			continue
		}
		note := payment.Label
		result.Lines = append(result.Lines, PayLineItem{
			ConceptID: c.ID,
			Type:      lineType,
			Quantity:  decimal.NewFromInt(1),
			UnitValue: payment.Amount,
			LineTotal: payment.Amount,
			Note:      &note,
		})
	}

	// 6. Totals: sums of already-rounded lines.
	result.TotalEarnings = decimal.Zero
	result.TotalDeductions = decimal.Zero
	for _, line := range result.Lines {
		if line.Type == concept.ConceptTypeEarning {
			result.TotalEarnings = result.TotalEarnings.Add(line.LineTotal)
		} else {
			result.TotalDeductions = result.TotalDeductions.Add(line.LineTotal)
		}
	}
	result.TotalEarnings = result.TotalEarnings.Round(0)
	result.TotalDeductions = result.TotalDeductions.Round(0)
	result.NetPay = result.TotalEarnings.Sub(result.TotalDeductions)

	return result
}
