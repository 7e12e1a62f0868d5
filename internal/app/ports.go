// Package app holds the screen-independent transaction flows: the create
// form, the delete confirmation on a list item and the list itself.
package app

// Notifier shows a short-lived notice to the user.
type Notifier interface {
	Notify(message string)
}

// Navigator leaves the current screen.
type Navigator interface {
	Back()
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) Back() { f() }

// User-facing messages.
const (
	MsgIncompleteForm = "Por favor, preencha todos os campos"
	MsgGenericError   = "Houve um erro. Tente mais tarde"
	MsgDeleteFailed   = "Não foi possível excluir a transação"
	MsgLoadCategories = "Não foi possível carregar as categorias"

	DeleteTitle   = "Excluir"
	DeleteMessage = "Deseja excluir essa transação?"
	OptionCancel  = "Cancelar"
	OptionConfirm = "Sim"
)
