package domain

import (
	"errors"
	"math"
)

var (
	ErrInvalidQuantity  = errors.New("cart: quantity must be greater than zero")
	ErrQuantityOverflow = errors.New("cart: quantity too large")
)

type CartLine struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// Cart maps product names to requested quantities. Lines keep the order in
// which each product was first added; adding a product again grows its line.
type Cart struct {
	Owner Customer
	lines []CartLine
	index map[string]int
}

func NewCart(owner Customer) *Cart {
	return &Cart{
		Owner: owner,
		index: make(map[string]int),
	}
}

func (c *Cart) Add(productName string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[productName]; ok {
		if quantity > math.MaxInt-c.lines[i].Quantity {
			return ErrQuantityOverflow
		}
		c.lines[i].Quantity += quantity
		return nil
	}
	c.index[productName] = len(c.lines)
	c.lines = append(c.lines, CartLine{ProductName: productName, Quantity: quantity})
	return nil
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Quantity(productName string) int {
	if i, ok := c.index[productName]; ok {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) TotalUnits() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}
