package dto

import (
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
)

type CustomerRequest struct {
	ID      int    `json:"id" binding:"required"`
	Contact string `json:"contact"`
}

type PurchaseItem struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

type PurchaseRequest struct {
	Customer CustomerRequest `json:"customer" binding:"required"`
	Items    []PurchaseItem  `json:"items" binding:"dive"`
}

func (r *PurchaseRequest) ToCart() (*domain.Cart, error) {
	cart := domain.NewCart(domain.NewCustomer(r.Customer.ID, r.Customer.Contact))
	for _, item := range r.Items {
		if err := cart.Add(item.ProductName, item.Quantity); err != nil {
			return nil, serviceerrors.NewInvalidRequestError(err.Error())
		}
	}
	return cart, nil
}
