package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	shareUC "github.com/khoahotran/folio/internal/application/usecase/share"
)

type ShareHandler struct {
	qrUseCase *shareUC.QRCodeUseCase
}

func NewShareHandler(qrUC *shareUC.QRCodeUseCase) *ShareHandler {
	return &ShareHandler{qrUseCase: qrUC}
}

// QRCode serves the portfolio's QR image as a download.
func (h *ShareHandler) QRCode(c *gin.Context) {
	out, err := h.qrUseCase.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.FileName))
	c.Header("X-Share-URL", out.URL)
	c.Data(http.StatusOK, "image/png", out.PNG)
}
