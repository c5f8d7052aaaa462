package cardmarket

import (
	"bytes"
	"cmwizard/pkg/htmlutil"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var (
	sellerRatingRegex = regexp.MustCompile(`fonticon-seller-rating-(\w+)`)
	colonNumberRegex  = regexp.MustCompile(`:\s*(\d+)`)
	colonWordRegex    = regexp.MustCompile(`:\s*(\w+)`)
)

// parseOfferSeller reads the seller column of a card page article. Only the
// seller name is required, the rest is best effort.
func parseOfferSeller(column *goquery.Selection) (CardOfferSeller, error) {
	name := column.Find(".seller-name").First()
	seller := CardOfferSeller{
		ID: htmlutil.SelectionText(name.Find("a").First()),
	}
	if seller.ID == "" {
		return seller, fmt.Errorf("seller name not found")
	}

	location := colonWordRegex.FindStringSubmatch(tooltipTitle(findTooltip(name)))
	if location != nil {
		seller.Location = location[1]
	}

	extended := column.Find(".seller-extended").First().Find(`[data-toggle="tooltip"]`)

	if extended.Length() > 0 {
		rating := sellerRatingRegex.FindStringSubmatch(extended.Eq(0).AttrOr("class", ""))
		if rating != nil && rating[1] != "none" {
			seller.Rating = rating[1]
		}
	}
	if extended.Length() > 1 {
		counts := digitGroups.FindAllString(tooltipTitle(extended.Eq(1)), -1)
		if len(counts) == 2 {
			seller.SaleCount, _ = parseInt(counts[0])
			seller.ItemCount, _ = parseInt(counts[1])
		}
	}
	if extended.Length() > 2 {
		matches := colonNumberRegex.FindAllStringSubmatch(tooltipTitle(extended.Eq(2)), -1)
		if len(matches) > 0 {
			// with a single number only the country estimate is known
			seller.EtaCountryDays, _ = parseInt(matches[len(matches)-1][1])
			if len(matches) > 1 {
				days, _ := parseInt(matches[0][1])
				seller.EtaDays = &days
			}
		}
	}

	return seller, nil
}

func parseCardOffer(row *goquery.Selection, site SiteLanguage) (CardOffer, error) {
	seller, err := parseOfferSeller(row.Find(".col-seller").First())
	if err != nil {
		return CardOffer{}, err
	}

	offerColumn := row.Find(".col-offer").First()
	price, err := parseEuroCents(htmlutil.SelectionText(offerColumn.Find(".price-container span").First()))
	if err != nil {
		return CardOffer{}, fmt.Errorf("offer of '%s': %w", seller.ID, err)
	}
	amount, err := parseInt(htmlutil.SelectionText(offerColumn.Find(".amount-container span").First()))
	if err != nil {
		return CardOffer{}, fmt.Errorf("offer of '%s': %w", seller.ID, err)
	}

	offer := CardOffer{
		Price:   price,
		Amount:  amount,
		Seller:  seller,
		Product: parseProductInfo(row.Find(".col-product").First(), site),
	}
	icon := row.Find(".col-icon").First()
	if icon.Length() > 0 {
		offer.ImageURL, _ = tooltipImageURL(icon)
	}
	return offer, nil
}

// ParseCardPage parses the offers page of a single card, offers keep the
// page order which is ascending by price.
func ParseCardPage(body []byte, site SiteLanguage) (CardPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return CardPage{}, err
	}

	result := CardPage{}
	h1 := doc.Find("h1").First()
	if h1.Length() == 0 {
		return CardPage{}, fmt.Errorf("card name not found")
	}
	result.Name = htmlutil.OwnText(h1.Nodes[0])
	if result.Name == "" {
		result.Name = htmlutil.SelectionText(h1)
	}

	info := doc.Find("#info .infoContainer").First()
	if info.Length() == 0 {
		return CardPage{}, fmt.Errorf("card info not found")
	}
	result.RulesText = htmlutil.SelectionText(info.Find("div").First())

	values := info.Find(".labeled dd")
	if values.Length() < 4 {
		return CardPage{}, fmt.Errorf("expected at least 4 card info values, got %d", values.Length())
	}
	result.ItemCount, err = parseInt(htmlutil.SelectionText(values.Eq(0)))
	if err != nil {
		return CardPage{}, fmt.Errorf("item count: %w", err)
	}
	result.VersionCount, err = parseInt(htmlutil.SelectionText(values.Eq(1)))
	if err != nil {
		return CardPage{}, fmt.Errorf("version count: %w", err)
	}
	result.MinPrice, err = parseEuroCents(htmlutil.SelectionText(values.Eq(2)))
	if err != nil {
		return CardPage{}, fmt.Errorf("min price: %w", err)
	}
	result.PriceTrend, err = parseEuroCents(htmlutil.SelectionText(values.Eq(3)))
	if err != nil {
		return CardPage{}, fmt.Errorf("price trend: %w", err)
	}

	rows := doc.Find("#table .table-body .article-row")
	for i := range rows.Nodes {
		offer, err := parseCardOffer(rows.Eq(i), site)
		if err != nil {
			return CardPage{}, fmt.Errorf("offer %d: %w", i, err)
		}
		result.Offers = append(result.Offers, offer)
	}

	return result, nil
}
