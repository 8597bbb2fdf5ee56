package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// UserSessionGet returns the captured pages.
// GET /api/self/v1/session
func UserSessionGet(c *gin.Context) {
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(models.GetSession().State()))
}

// UserSessionAddImage records a capture produced by the camera step.
// POST /api/self/v1/session/images
func UserSessionAddImage(c *gin.Context) {
	var body types.AddImageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	if strings.TrimSpace(string(body.Image)) == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("image is required"))
		return
	}
	session := models.GetSession()
	total := session.AddImage(body.Image)
	tool.DefaultLogger.Debugf("Captured image %d: %s", total, body.Image)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(session.State()))
}

// UserSessionNext pages forward.
// POST /api/self/v1/session/next
func UserSessionNext(c *gin.Context) {
	session := models.GetSession()
	session.Next()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(session.State()))
}

// UserSessionPrev pages back.
// POST /api/self/v1/session/prev
func UserSessionPrev(c *gin.Context) {
	session := models.GetSession()
	session.Prev()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(session.State()))
}

// UserSessionReset discards the captures (retake).
// DELETE /api/self/v1/session
func UserSessionReset(c *gin.Context) {
	session := models.GetSession()
	session.Reset()
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(session.State()))
}
