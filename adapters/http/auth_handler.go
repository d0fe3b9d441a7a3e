package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authUC "github.com/khoahotran/folio/internal/application/usecase/auth"
	"github.com/khoahotran/folio/pkg/apperror"
)

type AuthHandler struct {
	signUpUseCase      *authUC.SignUpUseCase
	signInUseCase      *authUC.SignInUseCase
	signOutUseCase     *authUC.SignOutUseCase
	currentUserUseCase *authUC.CurrentUserUseCase
}

func NewAuthHandler(
	signUpUC *authUC.SignUpUseCase,
	signInUC *authUC.SignInUseCase,
	signOutUC *authUC.SignOutUseCase,
	currentUserUC *authUC.CurrentUserUseCase,
) *AuthHandler {
	return &AuthHandler{
		signUpUseCase:      signUpUC,
		signInUseCase:      signInUC,
		signOutUseCase:     signOutUC,
		currentUserUseCase: currentUserUC,
	}
}

func bindError(c *gin.Context, err error) {
	c.Error(apperror.NewInvalidInput(err.Error(), err))
}

func toSessionResponse(s *authUC.Session) SessionResponse {
	return SessionResponse{User: ToUserDTO(s.User), AccessToken: s.AccessToken}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.signUpUseCase.Execute(c.Request.Context(), authUC.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toSessionResponse(session))
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	session, err := h.signInUseCase.Execute(c.Request.Context(), authUC.SignInInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	claims, _ := GetClaimsFromGinContext(c)
	if err := h.signOutUseCase.Execute(c.Request.Context(), claims); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)
	u, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToUserDTO(u))
}
