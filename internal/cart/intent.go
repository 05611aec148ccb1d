package cart

import "storefront/internal/catalog"

// Action is the kind of change an Intent requests.
type Action int

const (
	ActionAdd Action = iota
	ActionIncrement
	ActionDecrement
	ActionRemove
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionIncrement:
		return "increment"
	case ActionDecrement:
		return "decrement"
	case ActionRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Intent is a user request against one product.
type Intent struct {
	Action    Action
	ProductID catalog.ID
}

func Add(id catalog.ID) Intent       { return Intent{Action: ActionAdd, ProductID: id} }
func Increment(id catalog.ID) Intent { return Intent{Action: ActionIncrement, ProductID: id} }
func Decrement(id catalog.ID) Intent { return Intent{Action: ActionDecrement, ProductID: id} }
func Remove(id catalog.ID) Intent    { return Intent{Action: ActionRemove, ProductID: id} }
