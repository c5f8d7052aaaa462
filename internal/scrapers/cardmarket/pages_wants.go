package cardmarket

import (
	"bytes"
	"cmwizard/pkg/htmlutil"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

var trailingIDRegex = regexp.MustCompile(`(\d+)$`)

// ParseWantsLists parses the want-lists overview page.
func ParseWantsLists(body []byte) (WantsLists, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return WantsLists{}, err
	}

	var result WantsLists
	cards := doc.Find(".card")
	for i := range cards.Nodes {
		card := cards.Eq(i)

		href := card.Find(".card-link-img-top").AttrOr("href", "")
		id := trailingIDRegex.FindString(href)
		if id == "" {
			return WantsLists{}, fmt.Errorf("want-list id not found in url '%s'", href)
		}

		subtitle := htmlutil.SelectionText(card.Find(".card-subtitle"))
		counts := digitGroups.FindAllString(subtitle, -1)
		if len(counts) != 2 {
			return WantsLists{}, fmt.Errorf("could not find counts in subtitle '%s'", subtitle)
		}
		distinct, _ := parseInt(counts[0])
		total, _ := parseInt(counts[1])

		result.Items = append(result.Items, WantsListsItem{
			ID:                 id,
			Title:              htmlutil.SelectionText(card.Find(".card-title").First()),
			DistinctCardsCount: distinct,
			CardsCount:         total,
			ImageURL:           absoluteURL(card.Find("img").AttrOr("data-echo", "")),
		})
	}

	return result, nil
}

type wantsListColumns struct {
	name           int
	preview        int
	amount         int
	expansion      int
	languages      int
	minCondition   int
	isReverseHolo  int
	isSigned       int
	isFirstEdition int
	isAltered      int
	buyPrice       int
	hasMailAlert   int
}

// the table layout depends on the game, so the columns are located by the
// classes and titles of the header cells
func findWantsListColumns(header *goquery.Selection) (wantsListColumns, error) {
	cells := header.Find("th")
	indexOf := func(sel *goquery.Selection) int {
		if sel.Length() == 0 {
			return -1
		}
		return cells.IndexOfSelection(sel.First())
	}
	byClass := func(class string) int {
		th := cells.Filter("." + class)
		if th.Length() == 0 {
			th = header.Find("." + class).First().Closest("th")
		}
		return indexOf(th)
	}
	byTitle := func(title string) int {
		span := header.Find(fmt.Sprintf(`span[title="%s"]`, title)).First()
		return indexOf(span.Closest("th"))
	}

	columns := wantsListColumns{
		name:           byClass("name"),
		preview:        byClass("preview"),
		amount:         byClass("amount"),
		expansion:      byClass("expansion"),
		languages:      byClass("languages"),
		minCondition:   byClass("condition"),
		isReverseHolo:  byTitle("Reverse Holo?"),
		isSigned:       byTitle("Signed?"),
		isFirstEdition: byTitle("First Edition?"),
		isAltered:      byTitle("Altered?"),
		buyPrice:       byClass("buyPrice"),
		hasMailAlert:   byClass("mailAlert"),
	}
	if columns.name < 0 || columns.amount < 0 {
		return columns, fmt.Errorf("want-list table has no name or amount column")
	}
	return columns, nil
}

func cell(row *goquery.Selection, index int) *goquery.Selection {
	if index < 0 {
		return row.Children().Slice(0, 0)
	}
	return row.Children().Eq(index)
}

func optionalBool(row *goquery.Selection, index int) *bool {
	if index < 0 {
		return nil
	}
	return parseBool(htmlutil.SelectionText(cell(row, index)))
}

func parseWantsListRow(row *goquery.Selection, columns wantsListColumns, site SiteLanguage) (WantsListItem, error) {
	link := cell(row, columns.name).Find("a").First()
	href := link.AttrOr("href", "")
	id, err := rawCardIDFromURL(href)
	if err != nil {
		return WantsListItem{}, err
	}

	amount, err := parseInt(htmlutil.SelectionText(cell(row, columns.amount)))
	if err != nil {
		return WantsListItem{}, fmt.Errorf("amount of '%s': %w", id, err)
	}

	item := WantsListItem{
		ID:             id,
		Name:           htmlutil.SelectionText(link),
		Amount:         amount,
		IsReverseHolo:  optionalBool(row, columns.isReverseHolo),
		IsSigned:       optionalBool(row, columns.isSigned),
		IsFirstEdition: optionalBool(row, columns.isFirstEdition),
		IsAltered:      optionalBool(row, columns.isAltered),
	}

	if columns.preview >= 0 {
		item.ImageURL, err = tooltipImageURL(cell(row, columns.preview))
		if err != nil {
			return WantsListItem{}, fmt.Errorf("preview of '%s': %w", id, err)
		}
	}

	cell(row, columns.expansion).Find(`[data-toggle="tooltip"]`).Each(func(_ int, tooltip *goquery.Selection) {
		item.Expansions = append(item.Expansions, htmlutil.SelectionText(tooltip.Find("span").First()))
	})

	var langErr error
	cell(row, columns.languages).Find(`[data-toggle="tooltip"]`).Each(func(_ int, tooltip *goquery.Selection) {
		lang, err := CardLanguageByLabel(site, tooltipTitle(tooltip))
		if err != nil {
			langErr = err
			return
		}
		item.Languages = append(item.Languages, lang)
	})
	if langErr != nil {
		return WantsListItem{}, fmt.Errorf("languages of '%s': %w", id, langErr)
	}

	if columns.minCondition >= 0 {
		badge := htmlutil.SelectionText(cell(row, columns.minCondition).Find(".badge").First())
		item.MinCondition, err = ConditionByAbbreviation(badge)
		if err != nil {
			return WantsListItem{}, fmt.Errorf("condition of '%s': %w", id, err)
		}
	}

	if columns.buyPrice >= 0 {
		item.BuyPrice = tryParseEuroCents(htmlutil.SelectionText(cell(row, columns.buyPrice).Find("span").First()))
	}
	if columns.hasMailAlert >= 0 {
		alert := parseBool(htmlutil.SelectionText(cell(row, columns.hasMailAlert)))
		item.HasMailAlert = alert != nil && *alert
	}

	return item, nil
}

// ParseWantsList parses a single want-list page. `site` is needed to read
// the translated language tooltips.
func ParseWantsList(body []byte, site SiteLanguage) (WantsList, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return WantsList{}, err
	}

	table := doc.Find(".data-table").First()
	if table.Length() == 0 {
		return WantsList{}, fmt.Errorf("want-list table not found")
	}
	columns, err := findWantsListColumns(table.Find("thead").First())
	if err != nil {
		return WantsList{}, err
	}

	result := WantsList{
		Title: htmlutil.SelectionText(doc.Find("h1").First()),
	}
	rows := table.Find("tbody tr")
	for i := range rows.Nodes {
		item, err := parseWantsListRow(rows.Eq(i), columns, site)
		if err != nil {
			return WantsList{}, fmt.Errorf("row %d: %w", i, err)
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}
