package cardmarket

type WantsListsItem struct {
	ID                 string
	Title              string
	DistinctCardsCount int
	CardsCount         int
	ImageURL           string
}

type WantsLists struct {
	Items []WantsListsItem
}

type WantsListItem struct {
	ID           string
	Name         string
	Amount       int
	ImageURL     string
	Expansions   []string
	Languages    []CardLanguage
	MinCondition CardCondition
	// nil means "any"
	IsReverseHolo  *bool
	IsSigned       *bool
	IsFirstEdition *bool
	IsAltered      *bool
	// BuyPrice is in euro cents, nil when no maximum price is set.
	BuyPrice     *int
	HasMailAlert bool
}

type WantsList struct {
	Title string
	Items []WantsListItem
}

// ProductInfo is the attribute strip shown next to an article.
type ProductInfo struct {
	Expansion      string
	Rarity         string
	Condition      CardCondition
	Language       CardLanguage
	IsReverseHolo  bool
	IsSigned       bool
	IsFirstEdition bool
	IsAltered      bool
	ImageURL       string
}

type CardOfferSeller struct {
	ID        string
	Rating    string
	SaleCount int
	ItemCount int
	// EtaDays is nil when cardmarket has no estimate for the seller.
	EtaDays        *int
	EtaCountryDays int
	Location       string
}

type CardOffer struct {
	ImageURL string
	// Price is in euro cents.
	Price   int
	Amount  int
	Seller  CardOfferSeller
	Product ProductInfo
}

type CardPage struct {
	Name         string
	RulesText    string
	ItemCount    int
	VersionCount int
	MinPrice     int
	PriceTrend   int
	Offers       []CardOffer
}

type SellerOffer struct {
	CardID   string
	Name     string
	ImageURL string
	Price    int
	Quantity int
	Product  ProductInfo
}

type SellerOffersPage struct {
	SellerID       string
	Country        string
	EtaDays        *int
	TotalCount     int
	CurrentPage    int
	TotalPageCount int
	Offers         []SellerOffer
}
