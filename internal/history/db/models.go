package db

type WizardMissing struct {
	RunID  int64
	Idx    int64
	CardID string
}

type WizardPurchase struct {
	RunID    int64
	Idx      int64
	SellerID string
	CardID   string
	CardName string
	ImageUrl string
	Price    int64
}

type WizardRun struct {
	ID           int64
	WantsListID  string
	StartedAt    int64
	TotalPrice   int64
	ShippingCost int64
}
