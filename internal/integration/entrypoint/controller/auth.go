// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/multibook/backend/internal/application/usecase/auth"
	domainerror "github.com/multibook/backend/internal/domain/error"
	"github.com/multibook/backend/internal/integration/entrypoint/dto"
	"github.com/multibook/backend/internal/integration/entrypoint/middleware"
)

const oauthStateCookie = "oauth_state"

// AuthController handles authentication endpoints.
type AuthController struct {
	registerUseCase     *auth.RegisterUserUseCase
	confirmEmailUseCase *auth.ConfirmEmailUseCase
	loginUseCase        *auth.LoginUserUseCase
	refreshTokenUseCase *auth.RefreshTokenUseCase
	logoutUseCase       *auth.LogoutUserUseCase
	googleLoginUseCase  *auth.GoogleLoginUseCase
	secureCookies       bool
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(
	registerUseCase *auth.RegisterUserUseCase,
	confirmEmailUseCase *auth.ConfirmEmailUseCase,
	loginUseCase *auth.LoginUserUseCase,
	refreshTokenUseCase *auth.RefreshTokenUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
	googleLoginUseCase *auth.GoogleLoginUseCase,
	secureCookies bool,
) *AuthController {
	return &AuthController{
		registerUseCase:     registerUseCase,
		confirmEmailUseCase: confirmEmailUseCase,
		loginUseCase:        loginUseCase,
		refreshTokenUseCase: refreshTokenUseCase,
		logoutUseCase:       logoutUseCase,
		googleLoginUseCase:  googleLoginUseCase,
		secureCookies:       secureCookies,
	}
}

// Register handles POST /auth/register requests.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	output, err := c.registerUseCase.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RegisterResponse{
		Message:              output.Message,
		ConfirmationRequired: output.ConfirmationRequired,
		AccessToken:          output.AccessToken,
		RefreshToken:         output.RefreshToken,
		User:                 dto.ToUserResponse(output.User),
	})
}

// ConfirmEmail handles GET /auth/confirm?token= requests.
func (c *AuthController) ConfirmEmail(ctx *gin.Context) {
	output, err := c.confirmEmailUseCase.Execute(ctx.Request.Context(), auth.ConfirmEmailInput{
		Token: ctx.Query("token"),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         dto.ToUserResponse(output.User),
	})
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         dto.ToUserResponse(output.User),
	})
}

// RefreshToken handles POST /auth/refresh requests.
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	output, err := c.refreshTokenUseCase.Execute(ctx.Request.Context(), auth.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
	})
}

// Logout handles POST /auth/logout requests. Logout always succeeds.
func (c *AuthController) Logout(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		respondUnauthorized(ctx)
		return
	}

	var req dto.LogoutRequest
	_ = ctx.ShouldBindJSON(&req)

	output, _ := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{
		UserID:       userID,
		RefreshToken: req.RefreshToken,
	})

	ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: output.Message,
	})
}

// GoogleAuthURL handles GET /auth/google/url requests.
// The returned state is also set as a cookie and must come back on the callback.
func (c *AuthController) GoogleAuthURL(ctx *gin.Context) {
	url, state, err := c.googleLoginUseCase.AuthURL()
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(oauthStateCookie, state, 600, "/", "", c.secureCookies, true)
	ctx.JSON(http.StatusOK, dto.GoogleAuthURLResponse{
		URL:   url,
		State: state,
	})
}

// GoogleCallback handles POST /auth/google/callback requests.
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body",
			Code:  string(domainerror.ErrCodeMissingFields),
		})
		return
	}

	expected, err := ctx.Cookie(oauthStateCookie)
	if err != nil || subtle.ConstantTimeCompare([]byte(expected), []byte(req.State)) != 1 {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "Sign-in state does not match",
			Code:  string(domainerror.ErrCodeOAuthExchangeFailed),
		})
		return
	}
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", c.secureCookies, true)

	output, err := c.googleLoginUseCase.Execute(ctx.Request.Context(), auth.GoogleLoginInput{
		Code: req.Code,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	status := http.StatusOK
	if output.Created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.AuthResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User:         dto.ToUserResponse(output.User),
	})
}

func respondUnauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "Unauthorized",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}
