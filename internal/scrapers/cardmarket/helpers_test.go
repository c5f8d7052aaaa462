package cardmarket

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardIDFromURL(t *testing.T) {
	testCases := []struct {
		url      string
		expected string
	}{
		{"/en/YuGiOh/Cards/A-Feather-of-the-Phoenix", "A-Feather-of-the-Phoenix"},
		{
			"/en/YuGiOh/Products/Singles/Legendary-Hero-Decks/A-Feather-of-the-Phoenix?language=1,3&amp;minCondition=5",
			"A-Feather-of-the-Phoenix",
		},
		{"Singles/a/Dragon-s-Fighting-Spirit-V-1", "Dragon-s-Fighting-Spirit"},
		{"Singles/a/Dragon-s-Fighting-Spirit-V-2", "Dragon-s-Fighting-Spirit"},
		{"Singles/a/The-Flute-of-Summoning-Dragon-V2-Super-Rare", "The-Flute-of-Summoning-Dragon"},
		{"Singles/a/Cockroach-Knight-V1-Common", "Cockroach-Knight"},
		{"Singles/a/Vampire-Vamp", "Vampire-Vamp"},
	}

	for _, test := range testCases {
		t.Run(test.url, func(t *testing.T) {
			id, err := cardIDFromURL(test.url)
			require.NoError(t, err)
			require.Equal(t, test.expected, id)
		})
	}

	_, err := cardIDFromURL("/en/YuGiOh/Users/seller")
	require.Error(t, err)
}

func TestParseEuroCents(t *testing.T) {
	testCases := []struct {
		text     string
		expected int
	}{
		{"0,02 €", 2},
		{"1,50 €", 150},
		{"12,00 €", 1200},
		{"1.015,30 €", 101530},
	}
	for _, test := range testCases {
		cents, err := parseEuroCents(test.text)
		require.NoError(t, err)
		require.Equal(t, test.expected, cents, test.text)
	}

	_, err := parseEuroCents("")
	require.Error(t, err)
	_, err = parseEuroCents("5 €")
	require.Error(t, err)
	require.Nil(t, tryParseEuroCents("N/A"))
}

func TestParseBool(t *testing.T) {
	require.Equal(t, ptr(true), parseBool(" Y "))
	require.Equal(t, ptr(false), parseBool("N"))
	require.Nil(t, parseBool(""))
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "0,05 €", FormatPrice(5))
	require.Equal(t, "12,30 €", FormatPrice(1230))
	require.Equal(t, "1234,50 €", FormatPrice(123450))
	require.Equal(t, "-2,00 €", FormatPrice(-200))
}

func TestSellerOffersURL(t *testing.T) {
	require.Equal(
		t,
		"https://www.cardmarket.com/en/YuGiOh/Users/Some-Seller/Offers/Singles?idWantsList=42",
		SellerOffersURL("", LANG_ENGLISH, GAME_YUGIOH, "Some-Seller", "42"),
	)
	require.Equal(
		t,
		"http://127.0.0.1:80/de/Magic/Users/x/Offers/Singles?idWantsList=1",
		SellerOffersURL("http://127.0.0.1:80/", LANG_GERMAN, GAME_MAGIC, "x", "1"),
	)
}

func TestDumpName(t *testing.T) {
	require.Equal(t, "wants_123", dumpName("/Wants/123"))
	require.Equal(t, "users_some-seller_offers_singles", dumpName(sellerOffersEndpoint("Some-Seller")))
	require.Equal(t, "index", dumpName("/"))
}

func TestCardQueryValues(t *testing.T) {
	query := CardQuery{
		ID:            "A-Feather-of-the-Phoenix",
		Languages:     []CardLanguage{CARD_LANG_ENGLISH, CARD_LANG_GERMAN},
		MinCondition:  CONDITION_NEAR_MINT,
		IsSigned:      ptr(true),
		IsAltered:     ptr(false),
		IsReverseHolo: ptr(true),
	}
	values := query.Values()
	require.Equal(t, "1,3", values.Get("language"))
	require.Equal(t, "2", values.Get("minCondition"))
	require.Equal(t, "Y", values.Get("isSigned"))
	require.Equal(t, "N", values.Get("isAltered"))
	require.Equal(t, "Y", values.Get("isReverseHolo"))
	require.False(t, values.Has("isFirstEd"))

	require.Empty(t, CardQuery{ID: "x"}.Values())
}

func TestEnums(t *testing.T) {
	condition, err := ConditionByAbbreviation("LP")
	require.NoError(t, err)
	require.Equal(t, CONDITION_LIGHT_PLAYED, condition)
	require.Equal(t, "Light Played", condition.String())
	_, err = ConditionByAbbreviation("XX")
	require.Error(t, err)

	lang, err := CardLanguageByLabel(LANG_GERMAN, "Englisch")
	require.NoError(t, err)
	require.Equal(t, CARD_LANG_ENGLISH, lang)

	// untranslated tooltip on a german page
	lang, err = CardLanguageByLabel(LANG_GERMAN, "Japanese")
	require.NoError(t, err)
	require.Equal(t, CARD_LANG_JAPANESE, lang)

	_, err = CardLanguageByLabel(LANG_ENGLISH, "Klingon")
	require.Error(t, err)

	game, err := ParseGame("yugioh")
	require.NoError(t, err)
	require.Equal(t, GAME_YUGIOH, game)
	_, err = ParseSiteLanguage("nl")
	require.Error(t, err)
}
