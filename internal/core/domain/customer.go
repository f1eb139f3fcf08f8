package domain

type Customer struct {
	ID      int    `json:"id"`
	Contact string `json:"contact"`
}

func NewCustomer(id int, contact string) Customer {
	return Customer{ID: id, Contact: contact}
}
