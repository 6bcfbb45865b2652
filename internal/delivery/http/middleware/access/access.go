package http_access_middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/pollcast/core/internal/delivery/http/common"
)

const (
	ModeReadWrite = "RW"
	ModeReadOnly  = "RO"
)

// ReadOnly refuses everything but reads when the instance runs in RO mode.
// Websocket upgrades are GETs and stay allowed; their inbound writes are
// checked by the websocket layer.
func ReadOnly(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if mode != ModeReadOnly {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusBadGateway, http_common.ErrorResponse{
			Message: "write operations not allowed on read-only instance",
			Reason:  "READ_ONLY_INSTANCE",
		})
	}
}
