package domain

type ID string

func ValidateID(id string) bool {
	return len(id) == 24
}

type Amount int

func NewAmountFromCents(cents int) Amount {
	return Amount(cents)
}

func (a Amount) Multiply(b int) Amount {
	return a * Amount(b)
}

type Event interface {
	GetName() string
	GetEntityName() string
}
