package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multibook/backend/internal/application/usecase/business"
	"github.com/multibook/backend/internal/domain/entity"
	"github.com/multibook/backend/internal/domain/ledger"
	"github.com/multibook/backend/internal/integration/entrypoint/dto"
	"github.com/multibook/backend/internal/integration/entrypoint/middleware"
)

// BusinessController handles business and selection endpoints.
type BusinessController struct {
	createUseCase *business.CreateBusinessUseCase
	updateUseCase *business.UpdateBusinessUseCase
	deleteUseCase *business.DeleteBusinessUseCase
	listUseCase   *business.ListBusinessesUseCase
	selectUseCase *business.SelectBusinessUseCase
}

// NewBusinessController creates a new business controller instance.
func NewBusinessController(
	createUseCase *business.CreateBusinessUseCase,
	updateUseCase *business.UpdateBusinessUseCase,
	deleteUseCase *business.DeleteBusinessUseCase,
	listUseCase *business.ListBusinessesUseCase,
	selectUseCase *business.SelectBusinessUseCase,
) *BusinessController {
	return &BusinessController{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		listUseCase:   listUseCase,
		selectUseCase: selectUseCase,
	}
}

// List handles GET /businesses requests.
func (c *BusinessController) List(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), business.ListBusinessesInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBusinessListResponse(output.Businesses, output.Selection))
}

// Create handles POST /businesses requests.
func (c *BusinessController) Create(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.CreateBusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), business.CreateBusinessInput{
		UserID: userID,
		Name:   req.Name,
		Color:  entity.BusinessColor(req.Color),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBusinessResponse(output.Business))
}

// Update handles PATCH /businesses/:id requests.
func (c *BusinessController) Update(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.UpdateBusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	input := business.UpdateBusinessInput{
		UserID:     userID,
		BusinessID: ctx.Param("id"),
		Name:       req.Name,
	}
	if req.Color != nil {
		color := entity.BusinessColor(*req.Color)
		input.Color = &color
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBusinessResponse(output.Business))
}

// Delete handles DELETE /businesses/:id requests.
func (c *BusinessController) Delete(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	output, err := c.deleteUseCase.Execute(ctx.Request.Context(), business.DeleteBusinessInput{
		UserID:     userID,
		BusinessID: ctx.Param("id"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteBusinessResponse{
		RemovedTransactions: output.RemovedTransactions,
		Selection:           string(output.Selection),
	})
}

// Select handles PUT /selection requests.
func (c *BusinessController) Select(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.SelectBusinessRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondInvalidRequest(ctx, err)
		return
	}

	output, err := c.selectUseCase.Execute(ctx.Request.Context(), business.SelectBusinessInput{
		UserID:    userID,
		Selection: ledger.Selection(req.BusinessID),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SelectionResponse{Selection: string(output.Selection)})
}
