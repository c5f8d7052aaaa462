package cardmarket

import (
	"bytes"
	"cmwizard/pkg/htmlutil"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

func parseSellerOffer(row *goquery.Selection, site SiteLanguage) (SellerOffer, error) {
	info := row.Find(".col-sellerProductInfo").First()
	link := info.Find(".col-seller a").First()
	href := link.AttrOr("href", "")
	id, err := cardIDFromURL(href)
	if err != nil {
		return SellerOffer{}, err
	}

	offerColumn := row.Find(".col-offer").First()
	price, err := parseEuroCents(htmlutil.SelectionText(offerColumn.Find(".price-container").First()))
	if err != nil {
		return SellerOffer{}, fmt.Errorf("offer of '%s': %w", id, err)
	}
	quantity, err := parseInt(htmlutil.SelectionText(offerColumn.Find(".amount-container").First()))
	if err != nil {
		return SellerOffer{}, fmt.Errorf("offer of '%s': %w", id, err)
	}

	offer := SellerOffer{
		CardID:   id,
		Name:     htmlutil.SelectionText(link),
		Price:    price,
		Quantity: quantity,
		Product:  parseProductInfo(info.Find(".col-product").First(), site),
	}
	thumbnail := row.Find(".col-thumbnail").First()
	if thumbnail.Length() > 0 {
		offer.ImageURL, _ = tooltipImageURL(thumbnail)
	}
	return offer, nil
}

// ParseSellerOffersPage parses the first page of a seller's singles
// filtered by a want-list.
func ParseSellerOffersPage(body []byte, site SiteLanguage) (SellerOffersPage, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return SellerOffersPage{}, err
	}

	main := doc.Find("main").First()
	title := main.Find(".page-title-container").First()
	h1 := title.Find("h1").First()
	if h1.Length() == 0 {
		return SellerOffersPage{}, fmt.Errorf("seller title not found")
	}

	result := SellerOffersPage{
		SellerID:       htmlutil.OwnText(h1.Nodes[0]),
		Country:        tooltipTitle(findTooltip(h1)),
		CurrentPage:    1,
		TotalPageCount: 1,
	}
	if result.SellerID == "" {
		return SellerOffersPage{}, fmt.Errorf("seller id not found")
	}

	// cardmarket shows "0 days" when it does not have enough data
	eta, err := parseInt(htmlutil.SelectionText(title.Find(".h3").First()))
	if err == nil && eta > 0 {
		result.EtaDays = &eta
	}

	section := main.Find("section").First()
	rows := section.Find("#UserOffersTable .table-body .article-row")
	for i := range rows.Nodes {
		offer, err := parseSellerOffer(rows.Eq(i), site)
		if err != nil {
			return SellerOffersPage{}, fmt.Errorf("offer %d: %w", i, err)
		}
		result.Offers = append(result.Offers, offer)
	}

	result.TotalCount = len(result.Offers)
	pagination := section.Find(".pagination").First()
	if pagination.Length() > 0 {
		total, err := parseInt(htmlutil.SelectionText(pagination.Find(".total-count").First()))
		if err == nil {
			result.TotalCount = total
		}
		pages := digitGroups.FindAllString(htmlutil.SelectionText(pagination.Find("span.mx-1").First()), -1)
		if len(pages) == 2 {
			result.CurrentPage, _ = parseInt(pages[0])
			result.TotalPageCount, _ = parseInt(pages[1])
		}
	}

	return result, nil
}
