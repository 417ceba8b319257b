package domain

import "time"

// ProductAggregate is the financial rollup for one product code. Absolute
// amounts are filled in a first pass; percentage fields require the totals of
// every code and are derived in a second pass.
type ProductAggregate struct {
	ProductCode   string  `json:"product_code"`
	SalesCount    int     `json:"sales_count"`
	NetRevenue    float64 `json:"net_revenue"`
	CommissionWB  float64 `json:"commission_wb"`
	AcquiringFee  float64 `json:"acquiring_fee"`
	PayoutAmount  float64 `json:"payout_amount"`
	LogisticsCost float64 `json:"logistics_cost"`
	StorageCost   float64 `json:"storage_cost"`
	Penalties     float64 `json:"penalties"`
	Withholdings  float64 `json:"platform_withholdings"`
	ReceivingFee  float64 `json:"receiving_fee"`
	ToBank        float64 `json:"transferred_to_bank"`
	AdSpend       float64 `json:"advertising_spend"`
	UnitCost      float64 `json:"unit_cost"`
	CostOfGoods   float64 `json:"cost_of_goods"`
	UpsellFee     float64 `json:"upsell_fee"`
	NetProfit     float64 `json:"net_profit"`
	CostKnown     bool    `json:"cost_known"`

	// Percentage columns; empty string marks an undefined ratio (zero
	// denominator) rather than a crash.
	RevenueSharePct   string `json:"revenue_share_pct"`
	LogisticsPct      string `json:"logistics_pct"`
	StorageOfOwnPct   string `json:"storage_of_own_pct"`
	StorageOfTotalPct string `json:"storage_of_total_pct"`
	AdSpendPct        string `json:"ad_spend_pct"`
	CostPct           string `json:"cost_pct"`
	NetProfitPct      string `json:"net_profit_pct"`
	BuyoutRatePct     string `json:"buyout_rate_pct"`
}

// CorrectionReason is the closed set of brand-level adjustment reasons.
type CorrectionReason string

const (
	CorrectionVoluntaryRefundRevenue    CorrectionReason = "voluntary_refund_vs_revenue"
	CorrectionVoluntaryRefundCommission CorrectionReason = "voluntary_refund_vs_commission"
	CorrectionSalesReturnsAcquiring     CorrectionReason = "sales_returns_acquiring"
	CorrectionAdvertisingRaw            CorrectionReason = "advertising_raw"
)

// CorrectionEntry is a signed brand-level adjustment layered onto the rollup.
type CorrectionEntry struct {
	Reason CorrectionReason `json:"reason"`
	Amount float64          `json:"amount"`
}

// FineRow is one line of the penalty-type breakdown.
type FineRow struct {
	Kind   string  `json:"kind"`
	Amount float64 `json:"amount"`
}

// SummaryTotals carries the brand-level figures of the summary report
// variant (no per-code storage or receiving breakdown).
type SummaryTotals struct {
	StorageTotal      float64 `json:"storage_total"`
	JamWithholding    float64 `json:"jam_withholding"`
	WBPromoSpend      float64 `json:"wb_promo_spend"`
	ReceivingTotal    float64 `json:"receiving_total"`
	TransferredToBank float64 `json:"transferred_to_bank"`
	OwnAccountAds     float64 `json:"own_account_ads"`
}

// ReportBundle is the final ordered structure handed to the formatting
// layer: per-code rollup rows, fines breakdown, summary, cost block, net
// profit, correction row, totals row and percentage row, in that order.
// It is immutable once returned by the assembler.
type ReportBundle struct {
	Brand       string             `json:"brand"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Detailed    bool               `json:"detailed"`
	Products    []ProductAggregate `json:"products"`
	Fines       []FineRow          `json:"fines"`
	Summary     SummaryTotals      `json:"summary"`
	NetProfit   float64            `json:"net_profit"`
	Corrections []CorrectionEntry  `json:"corrections"`
	Totals      ProductAggregate   `json:"totals"`
	BuyoutRate  string             `json:"buyout_rate"`

	// Days inside the period with no sales or no advertising rows; filled
	// by the completeness check and surfaced to the caller as warnings.
	MissingSalesDates []string `json:"missing_sales_dates,omitempty"`
	MissingAdDates    []string `json:"missing_ad_dates,omitempty"`
}

// ReportRun is a persisted record of one completed report request.
type ReportRun struct {
	ID          string        `json:"id"`
	ExternalID  string        `json:"external_id"`
	Brand       string        `json:"brand"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	Detailed    bool          `json:"detailed"`
	Bundle      *ReportBundle `json:"bundle,omitempty"`
	ReportPath  string        `json:"report_path"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
