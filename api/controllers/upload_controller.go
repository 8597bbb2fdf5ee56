package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// UserSend uploads the first captured image to the active endpoint.
// POST /api/self/v1/send
func UserSend(c *gin.Context) {
	image, err := models.GetSession().First()
	if err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("No images available"))
		return
	}
	uploader := models.GetUploader()
	if uploader == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Uploader not configured"))
		return
	}
	release, ok := models.TryBeginUpload()
	if !ok {
		c.JSON(http.StatusConflict, tool.FastReturnError(types.ErrUploadBusy.Error()))
		return
	}
	defer release()

	endpoint := share.ResolveEndpoint()
	if endpoint != "" {
		if err := notify.SendUploadStartNotification(endpoint, image); err != nil {
			tool.DefaultLogger.Debugf("Failed to send upload notification: %v", err)
		}
	}
	result := uploader.Upload(c.Request.Context(), endpoint, image)
	if err := notify.SendUploadResultNotification(result); err != nil {
		tool.DefaultLogger.Debugf("Failed to send upload notification: %v", err)
	}
	_, message := notify.UploadResultMessage(result)
	payload := uploadPayload(result)
	switch result.Kind {
	case types.UploadSuccess:
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(payload))
	case types.UploadNoEndpointConfigured:
		c.JSON(http.StatusPreconditionFailed, tool.FastReturnErrorWithData(message, payload))
	case types.UploadImageUnavailable:
		c.JSON(http.StatusUnprocessableEntity, tool.FastReturnErrorWithData(message, payload))
	default:
		c.JSON(http.StatusBadGateway, tool.FastReturnErrorWithData(message, payload))
	}
}

// uploadPayload is what the caller sees of a result. The server status and transport cause stay
// in the logs and the notification data.
func uploadPayload(result types.UploadResult) gin.H {
	payload := gin.H{
		"kind":     result.Kind,
		"endpoint": result.Endpoint,
	}
	if result.FileName != "" {
		payload["file_name"] = result.FileName
	}
	if result.OK() {
		payload["bytes"] = result.Bytes
	}
	return payload
}

// UserServerStatus proxies the companion server's status page.
// GET /api/self/v1/server-status
func UserServerStatus(c *gin.Context) {
	uploader := models.GetUploader()
	if uploader == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Uploader not configured"))
		return
	}
	status, err := uploader.FetchServerStatus(c.Request.Context(), share.ResolveEndpoint())
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, types.ErrNoEndpointConfigured) {
			code = http.StatusPreconditionFailed
		}
		c.JSON(code, tool.FastReturnError(err.Error()))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(status))
}
