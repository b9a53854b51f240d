package frontend

import (
	"fmt"

	"github.com/janpfeifer/GoKlondike/internal/game"
	"github.com/maxence-charriere/go-app/v10/pkg/app"
	"k8s.io/klog/v2"
)

// Board renders the game and turns clicks into intents: click a face-up card
// to pick it (with the cards above it), then click the destination pile.
type Board struct {
	app.Compo
	selected *game.CardID

	onUpdate func()
}

func (b *Board) OnAppUpdate(ctx app.Context) {
	klog.Infof("Board: App update available, not reloading not to interrupt the game...")
}

func (b *Board) OnMount(ctx app.Context) {
	b.onUpdate = func() {
		ctx.Dispatch(func(ctx app.Context) {
			if b.selected != nil && Client.Game != nil {
				if _, _, ok := Client.Game.Locate(*b.selected); !ok {
					b.selected = nil
				}
			}
		})
	}
	if app.IsServer {
		return
	}
	Client.Listeners["board"] = b.onUpdate
	if Client.Conn == nil {
		if err := Client.ConnectWS(); err != nil {
			Client.Error = fmt.Sprintf("Failed to connect: %v", err)
		}
	}
}

func (b *Board) OnDismount() {
	delete(Client.Listeners, "board")
}

func (b *Board) onStockClick(ctx app.Context, e app.Event) {
	b.selected = nil
	Client.SendDraw()
}

// onCardClick selects a face-up card, or moves the selection onto the pile of
// the clicked card.
func (b *Board) onCardClick(card game.Card, pile game.PileRef) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		if pile.Kind == game.PileStock {
			b.onStockClick(ctx, e)
			return
		}
		if b.selected == nil || *b.selected == card.ID() {
			if card.FaceUp {
				id := card.ID()
				b.selected = &id
			} else {
				b.selected = nil
			}
			return
		}
		b.moveSelected(pile)
	}
}

func (b *Board) onPileClick(pile game.PileRef) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		if b.selected != nil {
			b.moveSelected(pile)
		}
	}
}

func (b *Board) moveSelected(to game.PileRef) {
	card := *b.selected
	b.selected = nil
	Client.SendMove(card, to)
}

func (b *Board) renderCard(card game.Card, pile game.PileRef, offset int) app.UI {
	class := "card"
	text := "🂠"
	if card.FaceUp {
		text = card.Rank.String() + suitSymbols[card.Suit]
		if card.Color() == game.Red {
			class += " red"
		}
	} else {
		class += " back"
	}
	if b.selected != nil && *b.selected == card.ID() {
		class += " selected"
	}
	if Client.Hint != nil && Client.Hint.Card == card.ID() {
		class += " hint"
	}
	return app.Div().
		Class(class).
		Style("top", fmt.Sprintf("%drem", offset)).
		OnClick(b.onCardClick(card, pile)).
		Text(text)
}

var suitSymbols = map[game.Suit]string{
	game.Spades:   "♠",
	game.Hearts:   "♥",
	game.Diamonds: "♦",
	game.Clubs:    "♣",
}

// renderPile shows the top card only, or an empty slot.
func (b *Board) renderPile(cards []game.Card, pile game.PileRef, label string, onEmptyClick app.EventHandler) app.UI {
	if len(cards) > 0 {
		return app.Div().Class("pile").Body(b.renderCard(cards[len(cards)-1], pile, 0))
	}
	return app.Div().Class("pile").OnClick(onEmptyClick).Body(
		app.Span().Class("slot-label").Text(label),
	)
}

func (b *Board) renderColumn(col int, cards []game.Card) app.UI {
	pile := game.TableauPile(col)
	if len(cards) == 0 {
		return app.Div().Class("pile column").OnClick(b.onPileClick(pile))
	}
	body := make([]app.UI, 0, len(cards))
	for i, card := range cards {
		body = append(body, b.renderCard(card, pile, i))
	}
	return app.Div().Class("pile column").Body(body...)
}

func (b *Board) Render() app.UI {
	g := Client.Game
	if g == nil {
		return app.Main().Class("container").Body(
			&TopBar{},
			app.P().Attr("aria-busy", "true").Text("Dealing..."),
		)
	}

	body := []app.UI{&TopBar{}}
	switch {
	case Client.Status == "won":
		body = append(body, app.Article().Class("banner won").Text(fmt.Sprintf("You won in %d moves!", g.MoveCount)))
	case Client.Status == "unwinnable":
		body = append(body, app.Article().Class("banner stuck").Text("No more moves: undo or start a new game."))
	case Client.Error != "":
		body = append(body, app.Small().Class("error").Text(Client.Error))
	}

	top := []app.UI{
		b.renderPile(g.Stock, game.StockPile(), "↻", b.onStockClick),
		b.renderPile(g.Waste, game.WastePile(), "", b.onPileClick(game.WastePile())),
		app.Div().Class("spacer"),
	}
	for suit := game.Spades; suit <= game.Clubs; suit++ {
		pile := game.FoundationPile(suit)
		top = append(top, b.renderPile(g.Foundations[suit], pile, suitSymbols[suit], b.onPileClick(pile)))
	}

	columns := make([]app.UI, 0, game.NumColumns)
	for col, cards := range g.Tableau {
		columns = append(columns, b.renderColumn(col, cards))
	}

	body = append(body,
		app.Div().Class("row").Body(top...),
		app.Div().Class("row tableau").Body(columns...),
	)
	return app.Main().Class("container").Body(body...)
}
