package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// UserGetNetworkInfo returns the connectivity reading discovery would use.
// GET /api/self/v1/network-info
func UserGetNetworkInfo(c *gin.Context) {
	info := tool.GetNetworkInfo(tool.GetCurrentConfig().NetworkInterface)
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(info))
}

// UserScanNow runs one discovery pass. Not finding a server is a normal answer, not an error.
// GET /api/self/v1/scan-now
func UserScanNow(c *gin.Context) {
	scanner := models.GetScanner()
	if scanner == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Scanner not configured"))
		return
	}
	result := scanner.ScanNow(c.Request.Context())
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(result))
}

// UserGetEndpoint returns the endpoint uploads go to.
// GET /api/self/v1/endpoint
func UserGetEndpoint(c *gin.Context) {
	if item, ok := share.GetActiveEndpoint(); ok {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(item))
		return
	}
	if saved := tool.GetCurrentConfig().ServerEndpoint; saved != "" {
		c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(types.ActiveEndpoint{
			Endpoint: tool.NormalizeEndpoint(saved),
			Source:   types.EndpointSourceSaved,
		}))
		return
	}
	c.JSON(http.StatusNotFound, tool.FastReturnError("Not detected"))
}

// UserTestConnection probes one user-entered endpoint, falling back to the saved one.
// POST /api/self/v1/test-connection
func UserTestConnection(c *gin.Context) {
	var body types.TestConnectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
			return
		}
	}
	endpoint := tool.NormalizeEndpoint(body.Endpoint)
	if endpoint == "" {
		endpoint = tool.NormalizeEndpoint(tool.GetCurrentConfig().ServerEndpoint)
	}
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Please enter a server IP address"))
		return
	}
	scanner := models.GetScanner()
	if scanner == nil {
		c.JSON(http.StatusServiceUnavailable, tool.FastReturnError("Scanner not configured"))
		return
	}
	result := scanner.TestConnection(c.Request.Context(), endpoint)
	if !result.OK {
		c.JSON(http.StatusBadGateway, tool.FastReturnErrorWithData(
			"Could not connect to server. Please check the IP address and make sure the server is running.", result))
		return
	}
	c.JSON(http.StatusOK, tool.FastReturnSuccessWithData(result))
}
