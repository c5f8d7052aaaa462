// Package optimizer assigns wanted cards to sellers so that the sum of the
// card prices plus a fixed shipping cost per used seller is as low as the
// heuristic can find.
//
// The search walks the wanted cards in order and keeps one state per seller:
// the cheapest purchase history found so far whose latest purchase was made
// at that seller. It does not explore every combination, so it may miss the
// global optimum.
package optimizer

import (
	"math"
)

// unreachable marks a cell no purchase history can get to. It is well below
// math.MaxInt so that adding a price and a shipping cost cannot overflow.
const unreachable = math.MaxInt / 4

// Seller is a column of the offer table. Offers maps a card id to the
// ascending prices of every unit of that card the seller has, one element
// per unit.
type Seller struct {
	ID     string
	Offers map[string][]int
}

type Purchase struct {
	CardID string
	Price  int
}

type SellerPurchases struct {
	ID        string
	Purchases []Purchase
}

// Result is the purchase assignment. Sellers are in offer table order and
// only contain sellers with at least one purchase.
type Result struct {
	TotalPrice   int
	Sellers      []SellerPurchases
	MissingCards []string
}

// pick is one purchase in a history, histories share their prefixes.
type pick struct {
	prev   *pick
	seller int
	card   string
}

type cell struct {
	price   int
	history *pick
}

// usage walks a history and returns how many units of `card` were taken
// from `seller` and whether the seller was used at all.
func usage(history *pick, seller int, card string) (units int, used bool) {
	for p := history; p != nil; p = p.prev {
		if p.seller != seller {
			continue
		}
		used = true
		if p.card == card {
			units++
		}
	}
	return units, used
}

// FindBestOffers computes a purchase assignment for `wants` (card ids,
// repeated once per wanted unit) out of `sellers`. The returned TotalPrice
// always equals the sum of the purchase prices plus shippingCost for every
// seller in the result.
func FindBestOffers(wants []string, sellers []Seller, shippingCost int) Result {
	if len(wants) == 0 || len(sellers) == 0 {
		return Result{TotalPrice: 0, MissingCards: missingOf(wants)}
	}

	prevRow := make([]cell, len(sellers))
	var missing []string

	for _, card := range wants {
		row := make([]cell, len(sellers))
		found := false

		for s, seller := range sellers {
			row[s] = cell{price: unreachable}

			prices := seller.Offers[card]
			if len(prices) == 0 {
				continue
			}

			for p, prev := range prevRow {
				if prev.price >= unreachable {
					continue
				}
				units, used := usage(prev.history, s, card)
				if units >= len(prices) {
					continue
				}
				candidate := prev.price + prices[units]
				if !used {
					candidate += shippingCost
				}
				// strict comparison keeps the earliest predecessor on ties
				if candidate < row[s].price {
					row[s] = cell{
						price: candidate,
						history: &pick{
							prev:   prevRow[p].history,
							seller: s,
							card:   card,
						},
					}
					found = true
				}
			}
		}

		if !found {
			missing = append(missing, card)
			continue
		}
		prevRow = row
	}

	best := 0
	for s := range prevRow {
		if prevRow[s].price < prevRow[best].price {
			best = s
		}
	}

	return Result{
		TotalPrice:   prevRow[best].price,
		Sellers:      expandHistory(prevRow[best].history, sellers),
		MissingCards: missing,
	}
}

func missingOf(wants []string) []string {
	if len(wants) == 0 {
		return nil
	}
	return append([]string(nil), wants...)
}

// expandHistory turns a history into per seller purchases, the k-th unit of a
// card taken from a seller is priced at the k-th cheapest offer.
func expandHistory(history *pick, sellers []Seller) []SellerPurchases {
	var picks []*pick
	for p := history; p != nil; p = p.prev {
		picks = append(picks, p)
	}

	purchases := make([][]Purchase, len(sellers))
	consumed := make([]map[string]int, len(sellers))
	for i := len(picks) - 1; i >= 0; i-- {
		p := picks[i]
		if consumed[p.seller] == nil {
			consumed[p.seller] = map[string]int{}
		}
		unit := consumed[p.seller][p.card]
		consumed[p.seller][p.card]++

		purchases[p.seller] = append(purchases[p.seller], Purchase{
			CardID: p.card,
			Price:  sellers[p.seller].Offers[p.card][unit],
		})
	}

	var out []SellerPurchases
	for s, seller := range sellers {
		if len(purchases[s]) == 0 {
			continue
		}
		out = append(out, SellerPurchases{
			ID:        seller.ID,
			Purchases: purchases[s],
		})
	}
	return out
}
