package cardmarket

import (
	"cmwizard/pkg/htmlutil"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var languageSpriteRegex = regexp.MustCompile(`background-position: -\d+px -0px;`)

// parseProductInfo reads the attribute strip of an article. Attributes that
// are not shown are left at their zero value.
func parseProductInfo(column *goquery.Selection, site SiteLanguage) ProductInfo {
	attributes := column.Find(".product-attributes").First()
	tooltips := attributes.Find(`[data-toggle="tooltip"]`)

	info := ProductInfo{
		Expansion: htmlutil.SelectionText(attributes.Find(".expansion-symbol span").First()),
	}

	abbreviation := htmlutil.SelectionText(attributes.Find(".article-condition span").First())
	if condition, err := ConditionByAbbreviation(abbreviation); err == nil {
		info.Condition = condition
	}

	tooltips.Each(func(_ int, tooltip *goquery.Selection) {
		style := tooltip.AttrOr("style", "")
		title := tooltipTitle(tooltip)

		switch {
		case strings.Contains(style, "ssRarity"):
			info.Rarity = tooltip.AttrOr("title", title)
		case strings.Contains(style, "ssMain2") && languageSpriteRegex.MatchString(style):
			if lang, err := CardLanguageByLabel(site, title); err == nil {
				info.Language = lang
			}
		case title == "Reverse Holo":
			info.IsReverseHolo = true
		case title == "Signed":
			info.IsSigned = true
		case title == "First Edition":
			info.IsFirstEdition = true
		case title == "Altered":
			info.IsAltered = true
		}
	})

	camera := attributes.Find(".fonticon-camera").First()
	if camera.Length() > 0 {
		if url, err := tooltipImageURL(camera); err == nil {
			info.ImageURL = url
		}
	}

	return info
}
