package frontend

import (
	"fmt"

	"github.com/maxence-charriere/go-app/v10/pkg/app"
)

// TopBar holds the game controls.
type TopBar struct {
	app.Compo
}

func (t *TopBar) onNewGame(drawMode int) app.EventHandler {
	return func(ctx app.Context, e app.Event) {
		e.PreventDefault()
		Client.SendNewGame(drawMode)
	}
}

func (t *TopBar) onUndo(ctx app.Context, e app.Event) {
	e.PreventDefault()
	Client.SendUndo()
}

func (t *TopBar) onHint(ctx app.Context, e app.Event) {
	e.PreventDefault()
	Client.SendHint()
}

func (t *TopBar) onAutoComplete(ctx app.Context, e app.Event) {
	e.PreventDefault()
	if Client.AutoRunning {
		Client.SendCancel()
	} else {
		Client.SendAutoComplete()
	}
	Client.Notify()
}

func (t *TopBar) Render() app.UI {
	moves := 0
	if Client.Game != nil {
		moves = Client.Game.MoveCount
	}

	actions := []app.UI{
		app.Li().Body(app.A().Href("#").OnClick(t.onNewGame(1)).Text("Draw 1")),
		app.Li().Body(app.A().Href("#").OnClick(t.onNewGame(3)).Text("Draw 3")),
		app.Li().Body(app.Button().Class("secondary").Disabled(!Client.CanUndo).OnClick(t.onUndo).Text("Undo")),
		app.Li().Body(app.Button().Class("secondary").OnClick(t.onHint).Text("Hint")),
	}
	if Client.AutoCompletes {
		label := "Auto-complete"
		if Client.AutoRunning {
			label = "Stop"
		}
		actions = append(actions, app.Li().Body(app.Button().OnClick(t.onAutoComplete).Text(label)))
	}

	return app.Nav().Body(
		app.Ul().Body(
			app.Li().Body(app.Strong().Text("Klondike")),
			app.Li().Body(app.Small().Text(fmt.Sprintf("Draw %d · %d moves", Client.DrawMode, moves))),
		),
		app.Ul().Body(actions...),
	)
}
