package cardmarket

import "fmt"

type CardCondition int

const (
	CONDITION_UNKNOWN CardCondition = iota
	CONDITION_MINT
	CONDITION_NEAR_MINT
	CONDITION_EXCELLENT
	CONDITION_GOOD
	CONDITION_LIGHT_PLAYED
	CONDITION_PLAYED
	CONDITION_POOR
)

var conditionAbbreviations = map[CardCondition]string{
	CONDITION_MINT:         "MT",
	CONDITION_NEAR_MINT:    "NM",
	CONDITION_EXCELLENT:    "EX",
	CONDITION_GOOD:         "GD",
	CONDITION_LIGHT_PLAYED: "LP",
	CONDITION_PLAYED:       "PL",
	CONDITION_POOR:         "PO",
}

var conditionNames = map[CardCondition]string{
	CONDITION_MINT:         "Mint",
	CONDITION_NEAR_MINT:    "Near Mint",
	CONDITION_EXCELLENT:    "Excellent",
	CONDITION_GOOD:         "Good",
	CONDITION_LIGHT_PLAYED: "Light Played",
	CONDITION_PLAYED:       "Played",
	CONDITION_POOR:         "Poor",
}

func (c CardCondition) Abbreviation() string {
	return conditionAbbreviations[c]
}

func (c CardCondition) String() string {
	name, ok := conditionNames[c]
	if !ok {
		return "Unknown"
	}
	return name
}

func ConditionByAbbreviation(abbreviation string) (CardCondition, error) {
	for condition, abbr := range conditionAbbreviations {
		if abbr == abbreviation {
			return condition, nil
		}
	}
	return CONDITION_UNKNOWN, fmt.Errorf("unsupported card condition '%s'", abbreviation)
}

// CardLanguage is the language a card is printed in, the value is the id
// the marketplace uses in query strings.
type CardLanguage int

const (
	CARD_LANG_UNKNOWN CardLanguage = iota
	CARD_LANG_ENGLISH
	CARD_LANG_FRENCH
	CARD_LANG_GERMAN
	CARD_LANG_SPANISH
	CARD_LANG_ITALIAN
	CARD_LANG_SIMPLIFIED_CHINESE
	CARD_LANG_JAPANESE
	CARD_LANG_PORTUGUESE
	CARD_LANG_KOREAN
	CARD_LANG_TRADITIONAL_CHINESE
)

// the labels shown in tooltips, per site language
var cardLanguageLabels = map[CardLanguage]map[SiteLanguage]string{
	CARD_LANG_ENGLISH: {
		LANG_ENGLISH: "English", LANG_FRENCH: "Anglais", LANG_GERMAN: "Englisch",
		LANG_SPANISH: "Inglés", LANG_ITALIAN: "Inglese",
	},
	CARD_LANG_FRENCH: {
		LANG_ENGLISH: "French", LANG_FRENCH: "Français", LANG_GERMAN: "Französisch",
		LANG_SPANISH: "Francés", LANG_ITALIAN: "Francese",
	},
	CARD_LANG_GERMAN: {
		LANG_ENGLISH: "German", LANG_FRENCH: "Allemand", LANG_GERMAN: "Deutsch",
		LANG_SPANISH: "Alemán", LANG_ITALIAN: "Tedesco",
	},
	CARD_LANG_SPANISH: {
		LANG_ENGLISH: "Spanish", LANG_FRENCH: "Espagnol", LANG_GERMAN: "Spanisch",
		LANG_SPANISH: "Español", LANG_ITALIAN: "Spagnolo",
	},
	CARD_LANG_ITALIAN: {
		LANG_ENGLISH: "Italian", LANG_FRENCH: "Italien", LANG_GERMAN: "Italienisch",
		LANG_SPANISH: "Italiano", LANG_ITALIAN: "Italiano",
	},
	CARD_LANG_SIMPLIFIED_CHINESE: {
		LANG_ENGLISH: "S-Chinese", LANG_FRENCH: "Chinois-S", LANG_GERMAN: "S-Chinesisch",
		LANG_SPANISH: "Chino-S", LANG_ITALIAN: "Cinese-S",
	},
	CARD_LANG_JAPANESE: {
		LANG_ENGLISH: "Japanese", LANG_FRENCH: "Japonais", LANG_GERMAN: "Japanisch",
		LANG_SPANISH: "Japonés", LANG_ITALIAN: "Giapponese",
	},
	CARD_LANG_PORTUGUESE: {
		LANG_ENGLISH: "Portuguese", LANG_FRENCH: "Portugais", LANG_GERMAN: "Portugiesisch",
		LANG_SPANISH: "Portugués", LANG_ITALIAN: "Portoghese",
	},
	CARD_LANG_KOREAN: {
		LANG_ENGLISH: "Korean", LANG_FRENCH: "Coréen", LANG_GERMAN: "Koreanisch",
		LANG_SPANISH: "Coreano", LANG_ITALIAN: "Coreano",
	},
	CARD_LANG_TRADITIONAL_CHINESE: {
		LANG_ENGLISH: "T-Chinese", LANG_FRENCH: "Chinois-T", LANG_GERMAN: "T-Chinesisch",
		LANG_SPANISH: "Chino-T", LANG_ITALIAN: "Cinese-T",
	},
}

func (l CardLanguage) Label(site SiteLanguage) string {
	return cardLanguageLabels[l][site]
}

func (l CardLanguage) String() string {
	label := l.Label(LANG_ENGLISH)
	if label == "" {
		return "Unknown"
	}
	return label
}

// CardLanguageByLabel looks a tooltip label up in the labels of `site`
// first and then in every other site language, product tooltips are not
// always translated.
func CardLanguageByLabel(site SiteLanguage, label string) (CardLanguage, error) {
	for lang := CARD_LANG_ENGLISH; lang <= CARD_LANG_TRADITIONAL_CHINESE; lang++ {
		if cardLanguageLabels[lang][site] == label {
			return lang, nil
		}
	}
	for _, other := range siteLanguages {
		for lang := CARD_LANG_ENGLISH; lang <= CARD_LANG_TRADITIONAL_CHINESE; lang++ {
			if cardLanguageLabels[lang][other] == label {
				return lang, nil
			}
		}
	}
	return CARD_LANG_UNKNOWN, fmt.Errorf("unsupported card language '%s' (site language %s)", label, site)
}
