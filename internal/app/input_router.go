package app

import (
	"strings"
)

// UserInputRouter decides what one submit from the input box means: the
// active capture step, the active quiz question, a slash command, or a
// plain dialogue message, in that order.
type UserInputRouter struct {
	app *App
}

// NewUserInputRouter creates an input router.
func NewUserInputRouter(app *App) *UserInputRouter {
	return &UserInputRouter{app: app}
}

// Route parses and routes user input.
func (r *UserInputRouter) Route(input string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	if r.app.CommandService.HandleCaptureInput(input) {
		return
	}

	if flow := r.app.CommandService.Quiz(); flow != nil {
		r.app.CommandService.HandleQuizAnswer(input)
		return
	}

	if strings.HasPrefix(input, "/") {
		r.app.CommandService.HandleCommand(input)
		return
	}

	sel := r.app.CommandService.currentSelection()
	r.app.ChatService.HandleUserMessage(input, sel.PageID)
}

// Cancel abandons whatever flow is in progress. Returns true if there was
// one to abandon.
func (r *UserInputRouter) Cancel() bool {
	if r.app.CommandService.CancelCapture() {
		return true
	}
	return r.app.CommandService.CancelQuiz()
}
