package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// UserShare hands the first captured image to the local share target.
// POST /api/self/v1/share
func UserShare(c *gin.Context) {
	image, err := models.GetSession().First()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No images available"))
		return
	}
	sharer := models.GetSharer()
	if sharer == nil || !sharer.IsAvailable() {
		_ = notify.SendShareNotification("", types.ErrShareUnavailable)
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError(notify.MessageShareUnavailable))
		return
	}
	path, err := sharer.Share(c.Request.Context(), image)
	if notifyErr := notify.SendShareNotification(path, err); notifyErr != nil {
		tool.DefaultLogger.Debugf("Failed to send share notification: %v", notifyErr)
	}
	if err != nil {
		tool.DefaultLogger.Errorf("Error sharing document: %v", err)
		if errors.Is(err, types.ErrShareUnavailable) {
			c.JSON(http.StatusServiceUnavailable, tool.FastReturnError(notify.MessageShareUnavailable))
			return
		}
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Error sharing document"))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(gin.H{"path": path}))
}
