package cardmarket

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	CookieDomain   = ".cardmarket.com"
	DefaultBaseURL = "https://www" + CookieDomain
)

// SiteLanguage is the language prefix of every marketplace path.
type SiteLanguage string

const (
	LANG_ENGLISH SiteLanguage = "en"
	LANG_FRENCH  SiteLanguage = "fr"
	LANG_GERMAN  SiteLanguage = "de"
	LANG_SPANISH SiteLanguage = "es"
	LANG_ITALIAN SiteLanguage = "it"
)

var siteLanguages = []SiteLanguage{
	LANG_ENGLISH,
	LANG_FRENCH,
	LANG_GERMAN,
	LANG_SPANISH,
	LANG_ITALIAN,
}

func ParseSiteLanguage(s string) (SiteLanguage, error) {
	for _, l := range siteLanguages {
		if string(l) == strings.ToLower(s) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unsupported site language '%s'", s)
}

// Game is the marketplace category, the second segment of every path.
type Game string

const (
	GAME_MAGIC           Game = "Magic"
	GAME_YUGIOH          Game = "YuGiOh"
	GAME_POKEMON         Game = "Pokemon"
	GAME_ONE_PIECE       Game = "OnePiece"
	GAME_LORCANA         Game = "Lorcana"
	GAME_FLESH_AND_BLOOD Game = "FleshAndBlood"
	GAME_DIGIMON         Game = "Digimon"
	GAME_DRAGONBALL      Game = "DragonBallSuper"
	GAME_VANGUARD        Game = "Vanguard"
	GAME_STAR_WARS       Game = "StarWarsUnlimited"
)

var games = []Game{
	GAME_MAGIC,
	GAME_YUGIOH,
	GAME_POKEMON,
	GAME_ONE_PIECE,
	GAME_LORCANA,
	GAME_FLESH_AND_BLOOD,
	GAME_DIGIMON,
	GAME_DRAGONBALL,
	GAME_VANGUARD,
	GAME_STAR_WARS,
}

func ParseGame(s string) (Game, error) {
	for _, g := range games {
		if strings.EqualFold(string(g), s) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unsupported game '%s'", s)
}

func prefix(lang SiteLanguage, game Game) string {
	return fmt.Sprintf("/%s/%s", lang, game)
}

const (
	endpointLogin     = "/Login"
	endpointUserLogin = "/PostGetAction/User_Login"
	endpointWants     = "/Wants"
)

func wantsListEndpoint(id string) string {
	return endpointWants + "/" + url.PathEscape(id)
}

func cardEndpoint(cardID string) string {
	return "/Cards/" + url.PathEscape(cardID)
}

func sellerOffersEndpoint(sellerID string) string {
	return "/Users/" + url.PathEscape(sellerID) + "/Offers/Singles"
}

// dumpName derives a diagnostics file name from an endpoint, ex.
// "/Users/seller/Offers/Singles" -> "users_seller_offers_singles".
func dumpName(endpoint string) string {
	endpoint = strings.Trim(endpoint, "/")
	if endpoint == "" {
		return "index"
	}
	var out strings.Builder
	for _, r := range strings.ToLower(endpoint) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			out.WriteRune(r)
		default:
			out.WriteRune('_')
		}
	}
	return out.String()
}

// SellerOffersURL is the page where the offers of a seller out of a
// want-list are put in the shopping cart.
func SellerOffersURL(baseURL string, lang SiteLanguage, game Game, sellerID, wantsListID string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	query := url.Values{"idWantsList": {wantsListID}}
	return strings.TrimRight(baseURL, "/") + prefix(lang, game) + sellerOffersEndpoint(sellerID) + "?" + query.Encode()
}
