package port

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type PurchaseOutcome string

const (
	PurchaseOutcomeBought            PurchaseOutcome = "bought"
	PurchaseOutcomeEmpty             PurchaseOutcome = "empty"
	PurchaseOutcomeInsufficientStock PurchaseOutcome = "insufficient_stock"
	PurchaseOutcomeError             PurchaseOutcome = "error"
)

type PurchaseMetrics interface {
	ObservePurchase(outcome PurchaseOutcome, units int)
}
