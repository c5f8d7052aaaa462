package commands

import (
	"cmwizard/internal/scrapers/cardmarket"
	"cmwizard/internal/wizard"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func optionalBool(value *bool) string {
	if value == nil {
		return ""
	}
	if *value {
		return "yes"
	}
	return "no"
}

func optionalPrice(cents *int) string {
	if cents == nil {
		return ""
	}
	return cardmarket.FormatPrice(*cents)
}

func renderWantsLists(out io.Writer, lists cardmarket.WantsLists) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Title", "Distinct cards", "Cards"})
	for _, item := range lists.Items {
		t.AppendRow(table.Row{item.ID, item.Title, item.DistinctCardsCount, item.CardsCount})
	}
	t.Render()
}

func renderWantsList(out io.Writer, list cardmarket.WantsList, site cardmarket.SiteLanguage) {
	fmt.Fprintln(out, list.Title)

	t := newTable(out)
	t.AppendHeader(table.Row{
		"Amount", "Name", "Expansions", "Languages", "Min condition",
		"Reverse holo", "Signed", "First edition", "Altered", "Max price",
	})
	for _, item := range list.Items {
		languages := make([]string, len(item.Languages))
		for i, l := range item.Languages {
			languages[i] = l.Label(site)
		}
		t.AppendRow(table.Row{
			item.Amount,
			item.Name,
			strings.Join(item.Expansions, ", "),
			strings.Join(languages, ", "),
			item.MinCondition.Abbreviation(),
			optionalBool(item.IsReverseHolo),
			optionalBool(item.IsSigned),
			optionalBool(item.IsFirstEdition),
			optionalBool(item.IsAltered),
			optionalPrice(item.BuyPrice),
		})
	}
	t.Render()
}

// resultLinks builds the page of every seller where its cards are ordered.
type resultLinks struct {
	baseURL     string
	language    cardmarket.SiteLanguage
	game        cardmarket.Game
	wantsListID string
}

func (l resultLinks) seller(id string) string {
	return cardmarket.SellerOffersURL(l.baseURL, l.language, l.game, id, l.wantsListID)
}

func renderResult(out io.Writer, result wizard.Result, shippingCost int, links resultLinks) {
	for _, seller := range result.Sellers {
		t := newTable(out)
		t.SetTitle(seller.ID)
		t.AppendHeader(table.Row{"Card", "Price"})

		subtotal := 0
		for _, offer := range seller.Offers {
			subtotal += offer.Price
			name := offer.CardName
			if name == "" {
				name = offer.CardID
			}
			t.AppendRow(table.Row{name, cardmarket.FormatPrice(offer.Price)})
		}
		t.AppendFooter(table.Row{"Subtotal", cardmarket.FormatPrice(subtotal)})
		t.Render()
		fmt.Fprintln(out, links.seller(seller.ID))
	}

	fmt.Fprintf(
		out,
		"Total: %s (%d sellers, estimated shipping %s each)\n",
		cardmarket.FormatPrice(result.TotalPrice),
		len(result.Sellers),
		cardmarket.FormatPrice(shippingCost),
	)
	if len(result.MissingCards) > 0 {
		fmt.Fprintf(out, "Failed to find %s\n", strings.Join(result.MissingCards, ", "))
	}
}

// stageProgress shows one tracker per wizard stage.
type stageProgress struct {
	writer   progress.Writer
	trackers map[wizard.Stage]*progress.Tracker
	current  *progress.Tracker
}

func newStageProgress(out io.Writer) *stageProgress {
	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Value = false

	return &stageProgress{
		writer:   pw,
		trackers: map[wizard.Stage]*progress.Tracker{},
	}
}

func (p *stageProgress) start() {
	go p.writer.Render()
}

func (p *stageProgress) report(fraction float64, stage wizard.Stage) {
	tracker, ok := p.trackers[stage]
	if !ok {
		if p.current != nil && !p.current.IsDone() {
			p.current.MarkAsDone()
		}
		tracker = &progress.Tracker{
			Message: stage.String(),
			Total:   100,
			Units:   progress.UnitsDefault,
		}
		p.trackers[stage] = tracker
		p.writer.AppendTracker(tracker)
		p.current = tracker
	}
	tracker.SetValue(int64(fraction * 100))
}

func (p *stageProgress) stop(err error) {
	for _, tracker := range p.trackers {
		if tracker.IsDone() {
			continue
		}
		if err != nil {
			tracker.MarkAsErrored()
			continue
		}
		tracker.MarkAsDone()
	}
	if !p.writer.IsRenderInProgress() {
		return
	}
	// let the renderer draw the final state before stopping it
	time.Sleep(200 * time.Millisecond)
	p.writer.Stop()
	for p.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
