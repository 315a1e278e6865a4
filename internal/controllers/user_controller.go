package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"mangiato/internal/models"
	"mangiato/internal/service"
)

type UserController struct {
	userService service.UserService
	log         *zap.Logger
}

func NewUserController(userService service.UserService, log *zap.Logger) *UserController {
	return &UserController{
		userService: userService,
		log:         log,
	}
}

// CreateUser handles POST /v1/users/
func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isEmailFormatError(err) {
			c.JSON(http.StatusNotAcceptable, models.ErrorResponse{Error: models.MsgNoFormatEmail})
			return
		}
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	response, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			uc.log.Info("registration_conflict", zap.String("username", req.Username), zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusConflict, models.ErrorResponse{Error: models.MsgExistingUser})
			return
		}
		uc.log.Error("registration_error", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgInternalError})
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ConfirmEmail handles GET /v1/users/confirm/:token
func (uc *UserController) ConfirmEmail(c *gin.Context) {
	response, err := uc.userService.Confirm(c.Request.Context(), c.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.MsgInvalidLink})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.MsgNoUserLink})
		default:
			uc.log.Error("confirmation_error", zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgInternalError})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Login handles POST /v1/login/ with HTTP basic credentials
func (uc *UserController) Login(c *gin.Context) {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		c.Header("WWW-Authenticate", `Basic realm="mangiato"`)
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: models.MsgUnauthorized})
		return
	}

	response, err := uc.userService.Login(c.Request.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			uc.log.Info("login_rejected", zap.String("username", username), zap.String("ip", c.ClientIP()))
			c.Header("WWW-Authenticate", `Basic realm="mangiato"`)
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: models.MsgUnauthorized})
		case errors.Is(err, service.ErrNotConfirmed):
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: models.MsgNotConfirmed})
		default:
			uc.log.Error("login_error", zap.String("username", username), zap.Error(err))
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: models.MsgInternalError})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// isEmailFormatError reports whether the only thing wrong is the username format
func isEmailFormatError(err error) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return false
	}
	for _, fe := range verrs {
		if fe.Field() != "Username" || fe.Tag() != "email" {
			return false
		}
	}
	return true
}
