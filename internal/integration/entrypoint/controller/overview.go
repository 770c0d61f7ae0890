package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multibook/backend/internal/application/usecase/overview"
	"github.com/multibook/backend/internal/integration/entrypoint/dto"
	"github.com/multibook/backend/internal/integration/entrypoint/middleware"
)

// OverviewController serves the balance overview.
type OverviewController struct {
	getOverviewUseCase *overview.GetOverviewUseCase
}

// NewOverviewController creates a new overview controller instance.
func NewOverviewController(getOverviewUseCase *overview.GetOverviewUseCase) *OverviewController {
	return &OverviewController{
		getOverviewUseCase: getOverviewUseCase,
	}
}

// Get handles GET /overview requests.
func (c *OverviewController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	output, err := c.getOverviewUseCase.Execute(ctx.Request.Context(), overview.GetOverviewInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToOverviewResponse(output))
}
