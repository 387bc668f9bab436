package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/aebalz/wellmind-tracker/internal/service"
)

// AuthHandler exposes sign-up and sign-in.
type AuthHandler struct {
	Service service.AuthServiceInterface
	Logger  zerolog.Logger
}

func NewAuthHandler(svc service.AuthServiceInterface, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{Service: svc, Logger: logger}
}

// RegisterFiber creates an account.
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body service.RegisterInput true "Account"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} apierror.Response
// @Failure 409 {object} apierror.Response
// @Router /auth/register [post]
func (h *AuthHandler) RegisterFiber(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return writeFiberError(c, h.Logger, errMalformedBody)
	}
	res, err := h.Service.Register(c.UserContext(), input)
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// LoginFiber exchanges credentials for an access token.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body service.LoginInput true "Credentials"
// @Success 200 {object} service.AuthResult
// @Failure 401 {object} apierror.Response
// @Router /auth/login [post]
func (h *AuthHandler) LoginFiber(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return writeFiberError(c, h.Logger, errMalformedBody)
	}
	res, err := h.Service.Login(c.UserContext(), input)
	if err != nil {
		return writeFiberError(c, h.Logger, err)
	}
	return c.JSON(res)
}

func (h *AuthHandler) RegisterGin(c *gin.Context) {
	var input service.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeGinError(c, h.Logger, errMalformedBody)
		return
	}
	res, err := h.Service.Register(c.Request.Context(), input)
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) LoginGin(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeGinError(c, h.Logger, errMalformedBody)
		return
	}
	res, err := h.Service.Login(c.Request.Context(), input)
	if err != nil {
		writeGinError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
