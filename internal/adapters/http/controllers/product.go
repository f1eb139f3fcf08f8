package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/shopping/internal/adapters/http/handlers"
	"github.com/rafaelleal24/shopping/internal/core/domain"
	"github.com/rafaelleal24/shopping/internal/core/service"
)

type ProductController struct {
	shoppingService *service.ShoppingService
}

type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int       `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          string(product.ID),
		Name:        product.Name,
		Description: product.Description,
		Price:       int(product.Price),
		Stock:       product.Stock,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func NewProductController(shoppingService *service.ShoppingService) *ProductController {
	return &ProductController{shoppingService: shoppingService}
}

// GetAll godoc
// @Summary     List all products
// @Description Returns every product with its available stock
// @Tags        products
// @Produce     json
// @Success     200 {array}  ProductResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/v1/products [get]
func (pc *ProductController) GetAll(c *gin.Context) {
	products, err := pc.shoppingService.GetAllProducts(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = NewProductResponse(product)
	}

	c.JSON(http.StatusOK, response)
}

// GetByName godoc
// @Summary     Get a product
// @Description Returns one product by name, possibly from cache
// @Tags        products
// @Produce     json
// @Param       name path     string true "Product name"
// @Success     200  {object} ProductResponse
// @Failure     404  {object} handlers.ErrorResponse
// @Failure     500  {object} handlers.ErrorResponse
// @Router      /api/v1/products/{name} [get]
func (pc *ProductController) GetByName(c *gin.Context) {
	product, err := pc.shoppingService.GetProductByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewProductResponse(product))
}
