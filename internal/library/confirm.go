package library

import "fmt"

// Confirmer asks the user before an irreversible action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Always answers every prompt with the same value.
type Always bool

func (a Always) Confirm(string) bool { return bool(a) }

func deletePrompt(title string) string {
	return fmt.Sprintf("Es-tu sûr de vouloir supprimer TOUTE la collection \"%s\" ? Cette action est définitive.", title)
}
