// Package wizard runs the shopping wizard: it fetches a want-list, gathers
// the offers for its cards, narrows down the sellers worth looking at and
// computes which seller to buy every card from.
package wizard

import (
	"cmwizard/internal/components/assert"
	"cmwizard/internal/components/telemetry"
	"cmwizard/internal/matcher"
	"cmwizard/internal/optimizer"
	"cmwizard/internal/scrapers/cardmarket"
	"context"
	"errors"
	"fmt"
	"sort"
)

const DefaultShippingCost = 200

const (
	report_orchestrator_run           = "orchestrator.run"
	report_orchestrator_card_sellers  = "orchestrator.card-sellers"
	report_orchestrator_rank_sellers  = "orchestrator.rank-sellers"
	report_orchestrator_seller_offers = "orchestrator.seller-offers"
)

var ErrCancelled = errors.New("wizard cancelled")

// Marketplace is the part of the cardmarket service the wizard reads from.
type Marketplace interface {
	WantsList(ctx context.Context, id string) (cardmarket.WantsList, error)
	Card(ctx context.Context, query cardmarket.CardQuery) (cardmarket.CardPage, error)
	SellerOffers(ctx context.Context, sellerID, wantsListID string) (cardmarket.SellerOffersPage, error)
}

type Options struct {
	// ShippingCost is the estimated shipping cost per seller in euro cents,
	// zero means DefaultShippingCost.
	ShippingCost int
}

type Offer struct {
	CardID   string
	CardName string
	Price    int
	ImageURL string
}

type Seller struct {
	ID     string
	Offers []Offer
}

type Result struct {
	TotalPrice   int
	MissingCards []string
	Sellers      []Seller
}

type Orchestrator struct {
	marketplace  Marketplace
	shippingCost int
	tel          telemetry.API
}

func NewOrchestrator(marketplace Marketplace, tel telemetry.API, opts Options) Orchestrator {
	assert.NotNil(marketplace)
	assert.NotNil(tel)

	shipping := opts.ShippingCost
	if shipping == 0 {
		shipping = DefaultShippingCost
	}
	return Orchestrator{
		marketplace:  marketplace,
		shippingCost: shipping,
		tel:          telemetry.NewScopedAPI("wizard", tel),
	}
}

// run is the state of a single wizard run.
type run struct {
	wantsListID string
	items       []cardmarket.WantsListItem
	// wants holds every wanted card id once per wanted unit.
	wants []string
	// wantedIDs holds every wanted card id once, in want-list order.
	wantedIDs  []string
	onProgress ProgressFunc
}

func (r run) progress(fraction float64, stage Stage) {
	if r.onProgress != nil {
		r.onProgress(fraction, stage)
	}
}

// cancelled reports ErrCancelled along with the context's cause once the
// context is done.
func cancelled(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx))
}

// fetchError turns an error of a marketplace call made while the context
// got cancelled into ErrCancelled.
func fetchError(ctx context.Context, err error) error {
	if cerr := cancelled(ctx); cerr != nil {
		return cerr
	}
	return err
}

// Run executes the wizard for a want-list. onProgress may be nil.
func (o Orchestrator) Run(ctx context.Context, wantsListID string, onProgress ProgressFunc) (Result, error) {
	r := run{wantsListID: wantsListID, onProgress: onProgress}

	if err := cancelled(ctx); err != nil {
		return Result{}, err
	}
	r.progress(0, StageFetchWantsList)
	wantsList, err := o.marketplace.WantsList(ctx, wantsListID)
	if err != nil {
		return Result{}, fetchError(ctx, fmt.Errorf("fetch wants list %s: %w", wantsListID, err))
	}
	r.progress(1, StageFetchWantsList)

	o.tel.ReportDebug("running shopping wizard", wantsListID, len(wantsList.Items))
	if len(wantsList.Items) == 0 {
		return Result{}, nil
	}
	r.items = wantsList.Items
	r.wants, r.wantedIDs = expandWants(wantsList.Items)

	cardOffers, err := o.fetchCardOffers(ctx, r)
	if err != nil {
		return Result{}, err
	}

	if err := cancelled(ctx); err != nil {
		return Result{}, err
	}
	sellerIDs := o.rankSellers(r, cardOffers)

	sellers, err := o.fetchSellerOffers(ctx, r, sellerIDs)
	if err != nil {
		return Result{}, err
	}

	if err := cancelled(ctx); err != nil {
		return Result{}, err
	}
	r.progress(0, StageOptimize)
	result := optimizer.FindBestOffers(r.wants, sellers, o.shippingCost)
	r.progress(1, StageOptimize)

	if len(result.MissingCards) > 0 {
		o.tel.ReportWarning(report_orchestrator_run, "cards without offers", result.MissingCards)
	}
	return mapResult(result, r.items), nil
}

func expandWants(items []cardmarket.WantsListItem) (wants []string, ids []string) {
	seen := map[string]bool{}
	for _, item := range items {
		for i := 0; i < max(item.Amount, 1); i++ {
			wants = append(wants, item.ID)
		}
		if !seen[item.ID] {
			seen[item.ID] = true
			ids = append(ids, item.ID)
		}
	}
	return wants, ids
}

// cardOffers are the offers listed on the card pages, keyed by wanted card
// id. order keeps the card ids in the order they were fetched.
type cardOffers struct {
	order  []string
	offers map[string][]cardmarket.CardOffer
}

func (o Orchestrator) fetchCardOffers(ctx context.Context, r run) (cardOffers, error) {
	result := cardOffers{offers: map[string][]cardmarket.CardOffer{}}

	progress := 0.0
	r.progress(progress, StageFetchCardSellers)
	for _, item := range r.items {
		if err := cancelled(ctx); err != nil {
			return cardOffers{}, err
		}

		card, err := o.marketplace.Card(ctx, cardmarket.CardQueryFromItem(item))
		if err != nil {
			return cardOffers{}, fetchError(ctx, fmt.Errorf("fetch card %s: %w", item.ID, err))
		}
		progress += 1 / float64(len(r.items))
		r.progress(min(progress, 1), StageFetchCardSellers)

		if len(card.Offers) == 0 {
			o.tel.ReportWarning(report_orchestrator_card_sellers, "no offers found", item.ID)
			continue
		}
		o.tel.ReportDebug(
			"lowest card price",
			item.ID, card.Offers[0].Price, card.Offers[0].Seller.ID,
		)

		if _, ok := result.offers[item.ID]; !ok {
			result.order = append(result.order, item.ID)
		}
		result.offers[item.ID] = card.Offers
	}
	return result, nil
}

// sellerTable converts the offers per card into offers per seller, sellers
// are ordered by their first appearance.
func sellerTable(cards cardOffers) []optimizer.Seller {
	index := map[string]int{}
	var sellers []optimizer.Seller
	for _, cardID := range cards.order {
		for _, offer := range cards.offers[cardID] {
			i, ok := index[offer.Seller.ID]
			if !ok {
				i = len(sellers)
				index[offer.Seller.ID] = i
				sellers = append(sellers, optimizer.Seller{
					ID:     offer.Seller.ID,
					Offers: map[string][]int{},
				})
			}
			for unit := 0; unit < offer.Amount; unit++ {
				sellers[i].Offers[cardID] = append(sellers[i].Offers[cardID], offer.Price)
			}
		}
	}
	for _, seller := range sellers {
		for _, prices := range seller.Offers {
			sort.Ints(prices)
		}
	}
	return sellers
}

// promisingSellers are the sellers of the preliminary assignment plus the
// sellers that offer more than one of the wanted cards, in table order.
func promisingSellers(table []optimizer.Seller, preliminary optimizer.Result) []string {
	picked := map[string]bool{}
	for _, seller := range preliminary.Sellers {
		picked[seller.ID] = true
	}

	var out []string
	for _, seller := range table {
		if picked[seller.ID] || len(seller.Offers) > 1 {
			out = append(out, seller.ID)
		}
	}
	return out
}

func (o Orchestrator) rankSellers(r run, cards cardOffers) []string {
	r.progress(0, StageRankSellers)

	table := sellerTable(cards)
	preliminary := optimizer.FindBestOffers(r.wants, table, o.shippingCost)
	sellerIDs := promisingSellers(table, preliminary)

	o.tel.ReportDebug("considering sellers", len(sellerIDs), len(table))
	o.tel.ReportCount(report_orchestrator_rank_sellers, int64(len(sellerIDs)))
	r.progress(1, StageRankSellers)
	return sellerIDs
}

// insertSorted inserts `price` into the ascending `prices`.
func insertSorted(prices []int, price int) []int {
	i := sort.SearchInts(prices, price+1)
	prices = append(prices, 0)
	copy(prices[i+1:], prices[i:])
	prices[i] = price
	return prices
}

func (o Orchestrator) fetchSellerOffers(ctx context.Context, r run, sellerIDs []string) ([]optimizer.Seller, error) {
	sellers := make([]optimizer.Seller, 0, len(sellerIDs))

	progress := 0.0
	r.progress(progress, StageFetchSellerOffers)
	for _, sellerID := range sellerIDs {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		page, err := o.marketplace.SellerOffers(ctx, sellerID, r.wantsListID)
		if err != nil {
			return nil, fetchError(ctx, fmt.Errorf("fetch offers of seller %s: %w", sellerID, err))
		}
		o.tel.ReportDebug("wanted offers found", sellerID, len(page.Offers))

		seller := optimizer.Seller{ID: sellerID, Offers: map[string][]int{}}
		for _, offer := range page.Offers {
			cardID, score := matcher.Match(offer.CardID, r.wantedIDs)
			if cardID == "" {
				continue
			}
			if score < 100 {
				o.tel.ReportDebug("inexact card match", offer.CardID, cardID, score)
			}
			for unit := 0; unit < offer.Quantity; unit++ {
				seller.Offers[cardID] = insertSorted(seller.Offers[cardID], offer.Price)
			}
		}
		if len(page.Offers) == 0 {
			o.tel.ReportWarning(report_orchestrator_seller_offers, "seller has no wanted offers", sellerID)
		}
		sellers = append(sellers, seller)

		progress += 1 / float64(len(sellerIDs))
		r.progress(min(progress, 1), StageFetchSellerOffers)
	}
	return sellers, nil
}

func mapResult(result optimizer.Result, items []cardmarket.WantsListItem) Result {
	byID := map[string]cardmarket.WantsListItem{}
	for _, item := range items {
		if _, ok := byID[item.ID]; !ok {
			byID[item.ID] = item
		}
	}

	out := Result{
		TotalPrice:   result.TotalPrice,
		MissingCards: result.MissingCards,
	}
	for _, seller := range result.Sellers {
		mapped := Seller{ID: seller.ID}
		for _, purchase := range seller.Purchases {
			item := byID[purchase.CardID]
			mapped.Offers = append(mapped.Offers, Offer{
				CardID:   purchase.CardID,
				CardName: item.Name,
				Price:    purchase.Price,
				ImageURL: item.ImageURL,
			})
		}
		out.Sellers = append(out.Sellers, mapped)
	}
	return out
}
