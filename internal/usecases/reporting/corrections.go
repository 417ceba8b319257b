package reporting

import (
	"github.com/vfg2006/marketplace-report-api/internal/domain"
)

// Corrections derives the adjustment entries appended below the report
// body. Voluntary refunds were already folded into the per-code payout, so
// the revenue and commission views both subtract them back out; correction
// outcome rows carry their amounts in the delivery-services column, never
// attributed to a product code.
type Corrections struct{}

func NewCorrections() *Corrections {
	return &Corrections{}
}

func (c *Corrections) Build(data *FilteredData, counts buyoutCounts) ([]domain.CorrectionEntry, string) {
	voluntaryRefunds := sumRows(data.Sales, domain.ColPayout, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeVoluntaryRefund
	})

	salesCorrections := sumRows(data.Sales, domain.ColDeliveryServices, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeSalesCorrection
	})
	returnsCorrections := sumRows(data.Sales, domain.ColDeliveryServices, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeReturnsCorrection
	})
	acquiringCorrections := sumRows(data.Sales, domain.ColDeliveryServices, func(row domain.Row) bool {
		return row[domain.ColPaymentReason] == domain.OutcomeAcquiringCorrection
	})

	advertisingRaw := sumRows(data.Ads, domain.ColAdAmount, nil)

	entries := []domain.CorrectionEntry{
		{
			Reason: domain.CorrectionVoluntaryRefundRevenue,
			Amount: -voluntaryRefunds,
		},
		{
			Reason: domain.CorrectionVoluntaryRefundCommission,
			Amount: -voluntaryRefunds,
		},
		{
			Reason: domain.CorrectionSalesReturnsAcquiring,
			Amount: -(salesCorrections + returnsCorrections - acquiringCorrections),
		},
		{
			Reason: domain.CorrectionAdvertisingRaw,
			Amount: advertisingRaw,
		},
	}

	buyoutRate := formatRatioPct(float64(counts.numerator), float64(counts.denominator))

	return entries, buyoutRate
}
