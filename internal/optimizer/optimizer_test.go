package optimizer

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func basicSellers() []Seller {
	return []Seller{
		{ID: "s1", Offers: map[string][]int{"c1": {1}, "c2": {2}, "c3": {3}}},
		{ID: "s2", Offers: map[string][]int{"c1": {2}, "c2": {1}, "c3": {1}}},
		{ID: "s3", Offers: map[string][]int{"c2": {2}, "c3": {1}}},
	}
}

func TestFindBestOffers(t *testing.T) {
	testCases := []struct {
		name     string
		wants    []string
		sellers  []Seller
		shipping int
		expected Result
	}{
		{
			name:     "basic",
			wants:    []string{"c1", "c2", "c3"},
			sellers:  basicSellers(),
			shipping: 0,
			expected: Result{
				TotalPrice: 3,
				Sellers: []SellerPurchases{
					{ID: "s1", Purchases: []Purchase{{"c1", 1}}},
					{ID: "s2", Purchases: []Purchase{{"c2", 1}, {"c3", 1}}},
				},
			},
		},
		{
			name:  "duplicate wants",
			wants: []string{"c1", "c2", "c2", "c3", "c3", "c3", "c3"},
			sellers: []Seller{
				{ID: "s1", Offers: map[string][]int{"c1": {1}, "c2": {2}, "c3": {3}}},
				{ID: "s2", Offers: map[string][]int{"c1": {2}, "c2": {1}, "c3": {1}}},
				{ID: "s3", Offers: map[string][]int{"c2": {2}, "c3": {1, 2}}},
			},
			shipping: 0,
			expected: Result{
				TotalPrice: 11,
				Sellers: []SellerPurchases{
					{ID: "s1", Purchases: []Purchase{{"c1", 1}, {"c2", 2}, {"c3", 3}}},
					{ID: "s2", Purchases: []Purchase{{"c2", 1}, {"c3", 1}}},
					{ID: "s3", Purchases: []Purchase{{"c3", 1}, {"c3", 2}}},
				},
			},
		},
		{
			name:  "missing cards",
			wants: []string{"c1", "c2", "c3", "c4"},
			sellers: []Seller{
				{ID: "s1", Offers: map[string][]int{"c2": {1}}},
			},
			shipping: 0,
			expected: Result{
				TotalPrice: 1,
				Sellers: []SellerPurchases{
					{ID: "s1", Purchases: []Purchase{{"c2", 1}}},
				},
				MissingCards: []string{"c1", "c3", "c4"},
			},
		},
		{
			name:  "shipping is amortized over one seller",
			wants: []string{"c1", "c2", "c3"},
			sellers: []Seller{
				{ID: "s1", Offers: map[string][]int{"c1": {1}, "c2": {2}, "c3": {3}}},
				{ID: "s2", Offers: map[string][]int{"c1": {2}, "c2": {1}, "c3": {1}}},
			},
			shipping: 2,
			expected: Result{
				TotalPrice: 6,
				Sellers: []SellerPurchases{
					{ID: "s2", Purchases: []Purchase{{"c1", 2}, {"c2", 1}, {"c3", 1}}},
				},
			},
		},
		{
			name:     "no wants",
			wants:    nil,
			sellers:  basicSellers(),
			shipping: 200,
			expected: Result{},
		},
		{
			name:     "no sellers",
			wants:    []string{"c1", "c1"},
			sellers:  nil,
			shipping: 200,
			expected: Result{MissingCards: []string{"c1", "c1"}},
		},
		{
			name:  "seller without offers has no effect",
			wants: []string{"c1"},
			sellers: []Seller{
				{ID: "empty", Offers: map[string][]int{}},
				{ID: "s1", Offers: map[string][]int{"c1": {5}}},
			},
			shipping: 1,
			expected: Result{
				TotalPrice: 6,
				Sellers: []SellerPurchases{
					{ID: "s1", Purchases: []Purchase{{"c1", 5}}},
				},
			},
		},
		{
			name:  "sold out units are missing",
			wants: []string{"c1", "c1", "c1"},
			sellers: []Seller{
				{ID: "s1", Offers: map[string][]int{"c1": {1}}},
				{ID: "s2", Offers: map[string][]int{"c1": {4}}},
			},
			shipping: 0,
			expected: Result{
				TotalPrice: 5,
				Sellers: []SellerPurchases{
					{ID: "s1", Purchases: []Purchase{{"c1", 1}}},
					{ID: "s2", Purchases: []Purchase{{"c1", 4}}},
				},
				MissingCards: []string{"c1"},
			},
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			result := FindBestOffers(test.wants, test.sellers, test.shipping)
			diff := cmp.Diff(test.expected, result)
			if diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func randomTable(r *rand.Rand) ([]string, []Seller, int) {
	cards := 1 + r.Intn(6)
	wantCount := 1 + r.Intn(10)
	var wants []string
	for i := 0; i < wantCount; i++ {
		wants = append(wants, fmt.Sprintf("c%d", r.Intn(cards)))
	}

	sellerCount := r.Intn(6)
	var sellers []Seller
	for s := 0; s < sellerCount; s++ {
		offers := map[string][]int{}
		for c := 0; c < cards; c++ {
			if r.Intn(3) == 0 {
				continue
			}
			unitCount := 1 + r.Intn(3)
			var prices []int
			for u := 0; u < unitCount; u++ {
				prices = append(prices, 1+r.Intn(500))
			}
			sort.Ints(prices)
			offers[fmt.Sprintf("c%d", c)] = prices
		}
		sellers = append(sellers, Seller{ID: fmt.Sprintf("s%d", s), Offers: offers})
	}

	return wants, sellers, r.Intn(300)
}

func TestFindBestOffersProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		wants, sellers, shipping := randomTable(r)
		result := FindBestOffers(wants, sellers, shipping)

		sum := 0
		bought := map[string]int{}
		offersById := map[string]map[string][]int{}
		for _, s := range sellers {
			offersById[s.ID] = s.Offers
		}

		for _, seller := range result.Sellers {
			require.NotEmpty(t, seller.Purchases)

			units := map[string]int{}
			for _, p := range seller.Purchases {
				sum += p.Price
				bought[p.CardID]++

				// the k-th unit bought is the k-th cheapest
				prices := offersById[seller.ID][p.CardID]
				require.Less(t, units[p.CardID], len(prices))
				require.Equal(t, prices[units[p.CardID]], p.Price)
				units[p.CardID]++
			}
		}
		require.Equal(t, sum+shipping*len(result.Sellers), result.TotalPrice)

		for _, card := range result.MissingCards {
			bought[card]++
		}
		wanted := map[string]int{}
		for _, card := range wants {
			wanted[card]++
		}
		require.Equal(t, wanted, bought)

		again := FindBestOffers(wants, sellers, shipping)
		require.Equal(t, result, again)
	}
}
