package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"mangiato/internal/jwt"
	"mangiato/internal/models"
	"mangiato/internal/service"
)

type QRCodeController struct {
	userService service.UserService
	tokens      *jwt.JWTService
}

func NewQRCodeController(userService service.UserService, tokens *jwt.JWTService) *QRCodeController {
	return &QRCodeController{
		userService: userService,
		tokens:      tokens,
	}
}

// ConfirmationQRCode handles GET /v1/users/confirm/:token/qrcode, a PNG of the
// confirmation link for opening it on another device
func (qc *QRCodeController) ConfirmationQRCode(c *gin.Context) {
	token := c.Param("token")
	if _, err := qc.tokens.ParseConfirmationToken(token); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: models.MsgInvalidLink})
		return
	}

	pngData, err := qrcode.Encode(qc.userService.ConfirmationLink(token), qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to generate QR code"})
		return
	}

	c.Header("Content-Disposition", "inline; filename=confirm.png")
	c.Data(http.StatusOK, "image/png", pngData)
}
