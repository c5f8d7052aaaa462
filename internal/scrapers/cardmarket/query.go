package cardmarket

import (
	"net/url"
	"strconv"
	"strings"
)

// CardQuery is the filter applied to the offers of a card page.
type CardQuery struct {
	ID             string
	Languages      []CardLanguage
	MinCondition   CardCondition
	IsReverseHolo  *bool
	IsSigned       *bool
	IsFirstEdition *bool
	IsAltered      *bool
}

func CardQueryFromItem(item WantsListItem) CardQuery {
	return CardQuery{
		ID:             item.ID,
		Languages:      item.Languages,
		MinCondition:   item.MinCondition,
		IsReverseHolo:  item.IsReverseHolo,
		IsSigned:       item.IsSigned,
		IsFirstEdition: item.IsFirstEdition,
		IsAltered:      item.IsAltered,
	}
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

// Values encodes the query the way the card page filter form does.
func (q CardQuery) Values() url.Values {
	values := url.Values{}
	if len(q.Languages) > 0 {
		ids := make([]string, len(q.Languages))
		for i, l := range q.Languages {
			ids[i] = strconv.Itoa(int(l))
		}
		values.Set("language", strings.Join(ids, ","))
	}
	if q.MinCondition != CONDITION_UNKNOWN {
		values.Set("minCondition", strconv.Itoa(int(q.MinCondition)))
	}
	if q.IsSigned != nil {
		values.Set("isSigned", yesNo(*q.IsSigned))
	}
	if q.IsFirstEdition != nil {
		values.Set("isFirstEd", yesNo(*q.IsFirstEdition))
	}
	if q.IsAltered != nil {
		values.Set("isAltered", yesNo(*q.IsAltered))
	}
	if q.IsReverseHolo != nil {
		values.Set("isReverseHolo", yesNo(*q.IsReverseHolo))
	}
	return values
}
