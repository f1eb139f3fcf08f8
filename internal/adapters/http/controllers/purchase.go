package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/shopping/internal/adapters/http/handlers"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/dto"
	"github.com/rafaelleal24/shopping/internal/core/service"
	"github.com/rafaelleal24/shopping/internal/core/serviceerrors"
)

const idempotencyKeyHeader = "Idempotency-Key"

type PurchaseController struct {
	checkoutService *service.CheckoutService
}

type PurchaseLineResponse struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type PurchaseResponse struct {
	ID          string                 `json:"id"`
	CustomerID  int                    `json:"customer_id"`
	Lines       []PurchaseLineResponse `json:"lines"`
	Bought      bool                   `json:"bought"`
	PurchasedAt time.Time              `json:"purchased_at"`
}

func NewPurchaseResponse(purchase *domain.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, len(purchase.Lines))
	for i, line := range purchase.Lines {
		lines[i] = PurchaseLineResponse{ProductName: line.ProductName, Quantity: line.Quantity}
	}
	return PurchaseResponse{
		ID:          purchase.ID,
		CustomerID:  purchase.Customer.ID,
		Lines:       lines,
		Bought:      purchase.Bought,
		PurchasedAt: purchase.PurchasedAt,
	}
}

func NewPurchaseController(checkoutService *service.CheckoutService) *PurchaseController {
	return &PurchaseController{checkoutService: checkoutService}
}

// Checkout godoc
// @Summary     Buy a cart
// @Description Buys every item of the cart or none of them. An empty cart returns bought=false.
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header   string               false "Replays the first result for retried requests"
// @Param       request         body     dto.PurchaseRequest  true  "Customer and cart items"
// @Success     200             {object} PurchaseResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     404             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     422             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Failure     500             {object} handlers.ErrorResponse
// @Router      /api/v1/purchases [post]
func (pc *PurchaseController) Checkout(c *gin.Context) {
	var request dto.PurchaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	cart, err := request.ToCart()
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	purchase, err := pc.checkoutService.Checkout(c.Request.Context(), c.GetHeader(idempotencyKeyHeader), cart)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPurchaseResponse(purchase))
}
