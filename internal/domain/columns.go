package domain

// Column names as they appear in Wildberries export workbooks. Files are
// matched on column membership, never on file name.
const (
	// Primary sales/returns report (the "realization" export, 50+ columns).
	ColBrand            = "Бренд"
	ColSupplierArticle  = "Артикул поставщика"
	ColPaymentReason    = "Обоснование для оплаты"
	ColRetailPrice      = "Цена розничная с учетом согласованной скидки"
	ColAcquiringFee     = "Эквайринг/Комиссии за организацию платежей"
	ColPayout           = "К перечислению Продавцу за реализованный Товар"
	ColDeliveryServices = "Услуги по доставке товара покупателю"
	ColPenaltyKind      = "Виды логистики, штрафов и корректировок ВВ"
	ColTotalPenalties   = "Общая сумма штрафов"
	ColWithholdings     = "Удержания"
	ColPaidAcceptance   = "Платная приемка"
	ColStorageFee       = "Хранение"
	ColSaleDate         = "Дата продажи"
	ColOrderDate        = "Дата заказа покупателем"
	ColFixationStart    = "Начало фиксации условий оплаты"
	ColFixationEnd      = "Конец фиксации условий оплаты"

	// Advertising spend export (under 10 columns).
	ColCampaignID = "ID кампании"
	ColCampaign   = "Кампания"
	ColDebitDate  = "Дата списания"
	ColAdAmount   = "Сумма"

	// Paid warehouse storage export (between 20 and 30 columns).
	ColWarehouseNumber = "Номер склада"
	ColStorageDate     = "Дата"
	ColSellerArticle   = "Артикул продавца"
	ColStorageAmount   = "Сумма хранения, руб"
)

// Payment-reason outcomes used for per-code aggregation and corrections.
const (
	OutcomeSale                = "Продажа"
	OutcomeReturn              = "Возврат"
	OutcomeCancel              = "Отмена"
	OutcomeVoluntaryRefund     = "Добровольная компенсация при возврате"
	OutcomeSalesCorrection     = "Коррекция продаж"
	OutcomeReturnsCorrection   = "Коррекция возвратов"
	OutcomeAcquiringCorrection = "Корректировка эквайринга"
)

// Withholding kinds in the penalty/correction-kind column.
const (
	WithholdingKindJam     = "Предоставление услуг по подписке «Джем»"
	WithholdingKindWBPromo = "Оказание услуг «WB Продвижение»"
)
