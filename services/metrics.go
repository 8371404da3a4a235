package services

import (
	"math"
	"time"

	"contract_flow_app_go/models"

	"github.com/shopspring/decimal"
)

// UnassignedPartnerBucket collects contracts whose partner id is missing or
// has no entry in the lookup supplied by the caller.
const UnassignedPartnerBucket = "Não Informado"

// Monthly series anchor. The series is not a rolling window: it always
// starts at this month and extends through the month of the run.
var seriesEpochYear, seriesEpochMonth = 2025, time.January

// WindowMetrics aggregates one calendar window: how many cases entered each
// status inside it, the fee money attached to those cases, and how many
// distinct cases showed any activity.
type WindowMetrics struct {
	Start           time.Time                  `json:"start"`
	End             time.Time                  `json:"end"` // exclusive
	EnteredByStatus map[string]int             `json:"entered_by_status"`
	FeeTotals       map[string]decimal.Decimal `json:"fee_totals"`
	ActiveContracts int                        `json:"active_contracts"`
}

// MonthlyPoint is one month of the fixed-epoch series
type MonthlyPoint struct {
	Month         time.Time       `json:"month"`
	Entries       int             `json:"entries"`
	ProposalCount int             `json:"proposal_count"`
	ProposalTotal decimal.Decimal `json:"proposal_total"`
	ContractCount int             `json:"contract_count"`
	ContractTotal decimal.Decimal `json:"contract_total"`
}

// FunnelMetrics is the analysis -> proposal -> active conversion pipeline.
// Rates are percentages with one decimal place and report 0 on a zero
// denominator. Dwell averages are simple means over the qualifying samples,
// rounded up to whole days.
type FunnelMetrics struct {
	Total                     int     `json:"total"`
	Qualified                 int     `json:"qualified"`
	Closed                    int     `json:"closed"`
	QualifiedRate             float64 `json:"qualified_rate"`
	ClosedRate                float64 `json:"closed_rate"`
	AvgAnalysisToProposalDays int     `json:"avg_analysis_to_proposal_days"`
	AvgProposalToContractDays int     `json:"avg_proposal_to_contract_days"`
}

// BreakdownShare is one slice of a rejection breakdown
type BreakdownShare struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// PartnerMetrics is the per-partner slice of the portfolio
type PartnerMetrics struct {
	Name          string                     `json:"name"`
	Total         int                        `json:"total"`
	CountByStatus map[string]int             `json:"count_by_status"`
	FeeTotals     map[string]decimal.Decimal `json:"fee_totals"`
}

// PortfolioMetrics is the full dashboard payload. Pure value data, produced
// by a single pass over the contract collection with no side effects, so it
// is safe to recompute on every change notification.
type PortfolioMetrics struct {
	GeneratedAt time.Time `json:"generated_at"`

	CurrentWeek   WindowMetrics `json:"current_week"`
	PreviousWeek  WindowMetrics `json:"previous_week"`
	CurrentMonth  WindowMetrics `json:"current_month"`
	PreviousMonth WindowMetrics `json:"previous_month"`

	MonthlySeries []MonthlyPoint `json:"monthly_series"`

	Funnel FunnelMetrics `json:"funnel"`

	RejectionsByReason map[string]BreakdownShare  `json:"rejections_by_reason"`
	RejectionsByParty  map[string]BreakdownShare  `json:"rejections_by_party"`
	Partners           map[string]*PartnerMetrics `json:"partners"`
}

// CategoryTotals normalizes a contract's declarations into one displayed
// total per category: pro-labore absorbs other fees, the final success fee
// absorbs intermediate fees, the fixed fee stands alone.
func CategoryTotals(contract *models.Contract) map[string]decimal.Decimal {
	proLabore := lineTotal(contract.ProLabore, contract.ProLaboreExtras)
	otherFees := lineTotal(contract.OtherFees, contract.OtherFeesExtras)
	success := lineTotal(contract.FinalSuccessFee, contract.FinalSuccessFeeExtras)
	intermediate := lineTotal("", contract.IntermediateFees)
	fixed := lineTotal(contract.FixedMonthlyFee, contract.FixedMonthlyFeeExtras)

	return map[string]decimal.Decimal{
		models.FeeCategoryProLabore:    proLabore.Add(otherFees),
		models.FeeCategoryFinalSuccess: success.Add(intermediate),
		models.FeeCategoryFixed:        fixed,
	}
}

func lineTotal(base string, extras models.StringList) decimal.Decimal {
	total := ParseAmount(base)
	for _, extra := range extras {
		total = total.Add(ParseAmount(extra))
	}
	return total
}

// ContractTotal is the sum of all displayed category totals
func ContractTotal(contract *models.Contract) decimal.Decimal {
	total := decimal.Zero
	for _, v := range CategoryTotals(contract) {
		total = total.Add(v)
	}
	return total
}

// AggregatePortfolio computes the full metrics structure over the contract
// collection in one pass. Calendar windows are computed once from now:
// current and previous Sunday-start weeks, current and previous calendar
// months, and the fixed-epoch monthly series. Partner names resolve through
// the supplied lookup; the function never reads ambient state.
func AggregatePortfolio(contracts []models.Contract, partnerNames map[string]string, now time.Time) *PortfolioMetrics {
	metrics := &PortfolioMetrics{
		GeneratedAt:        now,
		RejectionsByReason: map[string]BreakdownShare{},
		RejectionsByParty:  map[string]BreakdownShare{},
		Partners:           map[string]*PartnerMetrics{},
	}

	weekStart := startOfWeek(now)
	monthStart := startOfMonth(now)
	metrics.CurrentWeek = newWindow(weekStart, weekStart.AddDate(0, 0, 7))
	metrics.PreviousWeek = newWindow(weekStart.AddDate(0, 0, -7), weekStart)
	metrics.CurrentMonth = newWindow(monthStart, monthStart.AddDate(0, 1, 0))
	metrics.PreviousMonth = newWindow(monthStart.AddDate(0, -1, 0), monthStart)
	windows := []*WindowMetrics{
		&metrics.CurrentWeek, &metrics.PreviousWeek,
		&metrics.CurrentMonth, &metrics.PreviousMonth,
	}

	seriesIndex := map[string]int{}
	epoch := time.Date(seriesEpochYear, seriesEpochMonth, 1, 0, 0, 0, 0, now.Location())
	for month := epoch; !month.After(monthStart); month = month.AddDate(0, 1, 0) {
		seriesIndex[month.Format("2006-01")] = len(metrics.MonthlySeries)
		metrics.MonthlySeries = append(metrics.MonthlySeries, MonthlyPoint{
			Month:         month,
			ProposalTotal: decimal.Zero,
			ContractTotal: decimal.Zero,
		})
	}

	rejectedTotal := 0
	rejectionReasons := map[string]int{}
	rejectionParties := map[string]int{}
	var analysisToProposal, proposalToContract []float64

	for i := range contracts {
		contract := &contracts[i]
		totals := CategoryTotals(contract)

		for _, window := range windows {
			accumulateWindow(window, contract, totals)
		}

		// Entry-volume series: earliest status date, creation time as a
		// last resort
		if idx, ok := seriesMonth(seriesIndex, contract.EntryDate()); ok {
			metrics.MonthlySeries[idx].Entries++
		}
		if contract.ProposalDate != nil {
			if idx, ok := seriesMonth(seriesIndex, *contract.ProposalDate); ok {
				metrics.MonthlySeries[idx].ProposalCount++
				metrics.MonthlySeries[idx].ProposalTotal = metrics.MonthlySeries[idx].ProposalTotal.Add(sumTotals(totals))
			}
		}
		if contract.ContractDate != nil {
			if idx, ok := seriesMonth(seriesIndex, *contract.ContractDate); ok {
				metrics.MonthlySeries[idx].ContractCount++
				metrics.MonthlySeries[idx].ContractTotal = metrics.MonthlySeries[idx].ContractTotal.Add(sumTotals(totals))
			}
		}

		// Funnel classification: every contract lands in exactly one stage
		metrics.Funnel.Total++
		switch contract.Status {
		case models.ContractStatusProposal:
			metrics.Funnel.Qualified++
		case models.ContractStatusActive:
			metrics.Funnel.Qualified++
			metrics.Funnel.Closed++
		case models.ContractStatusRejected:
			if contract.ProposalDate != nil {
				metrics.Funnel.Qualified++
			}
		}

		if contract.ProspectDate != nil && contract.ProposalDate != nil && !contract.ProposalDate.Before(*contract.ProspectDate) {
			analysisToProposal = append(analysisToProposal, contract.ProposalDate.Sub(*contract.ProspectDate).Hours()/24)
		}
		if contract.ProposalDate != nil && contract.ContractDate != nil && !contract.ContractDate.Before(*contract.ProposalDate) {
			proposalToContract = append(proposalToContract, contract.ContractDate.Sub(*contract.ProposalDate).Hours()/24)
		}

		if contract.IsRejected() {
			rejectedTotal++
			rejectionReasons[orUnassigned(contract.RejectionReason)]++
			rejectionParties[orUnassigned(contract.RejectedBy)]++
		}

		partner := metrics.Partners[partnerBucket(contract, partnerNames)]
		if partner == nil {
			partner = &PartnerMetrics{
				Name:          partnerBucket(contract, partnerNames),
				CountByStatus: map[string]int{},
				FeeTotals:     map[string]decimal.Decimal{},
			}
			metrics.Partners[partner.Name] = partner
		}
		partner.Total++
		partner.CountByStatus[contract.Status]++
		for category, amount := range totals {
			partner.FeeTotals[category] = partner.FeeTotals[category].Add(amount)
		}
	}

	metrics.Funnel.QualifiedRate = percentage(metrics.Funnel.Qualified, metrics.Funnel.Total)
	metrics.Funnel.ClosedRate = percentage(metrics.Funnel.Closed, metrics.Funnel.Qualified)
	metrics.Funnel.AvgAnalysisToProposalDays = ceilMean(analysisToProposal)
	metrics.Funnel.AvgProposalToContractDays = ceilMean(proposalToContract)

	for reason, count := range rejectionReasons {
		metrics.RejectionsByReason[reason] = BreakdownShare{Count: count, Percent: percentage(count, rejectedTotal)}
	}
	for party, count := range rejectionParties {
		metrics.RejectionsByParty[party] = BreakdownShare{Count: count, Percent: percentage(count, rejectedTotal)}
	}

	return metrics
}

func newWindow(start, end time.Time) WindowMetrics {
	return WindowMetrics{
		Start:           start,
		End:             end,
		EnteredByStatus: map[string]int{},
		FeeTotals:       map[string]decimal.Decimal{},
	}
}

// accumulateWindow counts every status entry whose business date falls in
// the window. The contract's fee money is attributed to the window when the
// date of its current status lands there; activity marks the contract once
// no matter how many of its dates fall inside.
func accumulateWindow(window *WindowMetrics, contract *models.Contract, totals map[string]decimal.Decimal) {
	active := false
	for _, status := range models.AllContractStatuses {
		d := statusEntryDate(contract, status)
		if !inWindow(d, window) {
			continue
		}
		window.EnteredByStatus[status]++
		active = true
	}
	if inWindow(contract.StatusDate(contract.Status), window) {
		for category, amount := range totals {
			window.FeeTotals[category] = window.FeeTotals[category].Add(amount)
		}
	}
	if active {
		window.ActiveContracts++
	}
}

// statusEntryDate is StatusDate without the probono -> contract_date
// fallback for contracts that are not probono; otherwise a signed contract
// would register as entering both active and probono in the same window.
func statusEntryDate(contract *models.Contract, status string) *time.Time {
	if status == models.ContractStatusProbono && contract.Status != models.ContractStatusProbono {
		return contract.ProbonoDate
	}
	return contract.StatusDate(status)
}

func inWindow(d *time.Time, window *WindowMetrics) bool {
	return d != nil && !d.Before(window.Start) && d.Before(window.End)
}

func seriesMonth(index map[string]int, d time.Time) (int, bool) {
	idx, ok := index[d.Format("2006-01")]
	return idx, ok
}

func sumTotals(totals map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range totals {
		total = total.Add(v)
	}
	return total
}

func partnerBucket(contract *models.Contract, partnerNames map[string]string) string {
	if contract.PartnerID == nil {
		return UnassignedPartnerBucket
	}
	if name, ok := partnerNames[*contract.PartnerID]; ok && name != "" {
		return name
	}
	return UnassignedPartnerBucket
}

func orUnassigned(s *string) string {
	if s == nil || *s == "" {
		return UnassignedPartnerBucket
	}
	return *s
}

// percentage returns num/den as a percentage with one decimal place, 0 when
// the denominator is 0
func percentage(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}

func ceilMean(samples []float64) int {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return int(math.Ceil(sum / float64(len(samples))))
}

// startOfWeek returns the preceding (or same) Sunday at midnight
func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
