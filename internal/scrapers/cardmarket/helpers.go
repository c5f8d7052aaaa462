package cardmarket

import (
	"cmwizard/pkg/htmlutil"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var digitGroups = regexp.MustCompile(`\d+`)

// parseEuroCents reads a price like "1.234,50 €" as 123450 cents, the
// last digit group is always the cents.
func parseEuroCents(text string) (int, error) {
	groups := digitGroups.FindAllString(text, -1)
	if len(groups) < 2 {
		return 0, fmt.Errorf("could not parse price from '%s'", text)
	}
	return strconv.Atoi(strings.Join(groups, ""))
}

func tryParseEuroCents(text string) *int {
	cents, err := parseEuroCents(text)
	if err != nil {
		return nil
	}
	return &cents
}

// FormatPrice renders euro cents the way the marketplace shows them.
func FormatPrice(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d,%02d €", sign, cents/100, cents%100)
}

func parseInt(text string) (int, error) {
	text = htmlutil.CleanText(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("could not parse number from '%s'", text)
	}
	return n, nil
}

// parseBool reads the "Y"/"N" cells of the want-list table.
func parseBool(text string) *bool {
	var value bool
	switch htmlutil.CleanText(text) {
	case "Y":
		value = true
	case "N":
		value = false
	default:
		return nil
	}
	return &value
}

var cardURLRegex = regexp.MustCompile(`Cards/([\w-]+)|Singles/[\w-]+/([\w-]+)`)

// version suffixes like "-V1-Common" or "-V-2"
var versionSuffixRegex = regexp.MustCompile(`-V-?\d+(-[\w-]*)?$`)

// cardIDFromURL returns the card id in a card or product url without the
// version suffix a product url carries.
func cardIDFromURL(href string) (string, error) {
	id, err := rawCardIDFromURL(href)
	if err != nil {
		return "", err
	}
	return versionSuffixRegex.ReplaceAllString(id, ""), nil
}

func rawCardIDFromURL(href string) (string, error) {
	groups := cardURLRegex.FindStringSubmatch(href)
	if groups == nil {
		return "", fmt.Errorf("card id not found in url '%s'", href)
	}
	if groups[1] != "" {
		return groups[1], nil
	}
	return groups[2], nil
}

func tooltipTitle(sel *goquery.Selection) string {
	if title, ok := sel.Attr("data-original-title"); ok {
		return title
	}
	return sel.AttrOr("title", "")
}

// findTooltip returns the selection itself when it is a tooltip, otherwise
// its first tooltip descendant.
func findTooltip(sel *goquery.Selection) *goquery.Selection {
	if sel.Is(`[data-toggle="tooltip"]`) {
		return sel.First()
	}
	return sel.Find(`[data-toggle="tooltip"]`).First()
}

var tooltipImageRegex = regexp.MustCompile(`src="(.*?)"`)

// tooltipImageURL extracts the image url embedded in the html of an image
// preview tooltip.
func tooltipImageURL(sel *goquery.Selection) (string, error) {
	tooltip := findTooltip(sel)
	title := tooltip.AttrOr("title", tooltip.AttrOr("data-original-title", ""))
	groups := tooltipImageRegex.FindStringSubmatch(title)
	if groups == nil {
		return "", fmt.Errorf("image url not found in tooltip '%s'", title)
	}
	return absoluteURL(groups[1]), nil
}

func absoluteURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}
