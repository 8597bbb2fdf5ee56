package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/types"
)

// UserStatus returns server status for the web UI (running, notify_ws_enabled).
// GET /api/self/v1/status
func UserStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":           true,
		"notify_ws_enabled": notify.NotifyWSEnabled(),
	})
}

// UserConfigGet returns the persisted settings.
// GET /api/self/v1/config
func UserConfigGet(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse(tool.GetCurrentConfig()))
}

func configResponse(cfg types.AppConfig) types.ConfigResponse {
	return types.ConfigResponse{
		ServerEndpoint:   cfg.ServerEndpoint,
		DiscoveryPort:    cfg.DiscoveryPort,
		AllowWired:       cfg.AllowWired,
		NetworkInterface: cfg.NetworkInterface,
		IcmpPrecheck:     cfg.IcmpPrecheck,
		ProbeRatePPS:     cfg.ProbeRatePPS,
		ShareFolder:      cfg.ShareFolder,
	}
}

// UserConfigPatch accepts a partial config and persists it. A server_endpoint that is blank is
// rejected before anything is written.
// PATCH /api/self/v1/config
func UserConfigPatch(c *gin.Context) {
	var body types.ConfigPatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, tool.FastReturnError(err.Error()))
		return
	}
	if body.ServerEndpoint != nil && strings.TrimSpace(*body.ServerEndpoint) == "" {
		c.JSON(http.StatusBadRequest, tool.FastReturnError("Please enter a valid server IP address"))
		return
	}

	optionsChanged := body.AllowWired != nil || body.IcmpPrecheck != nil || body.ShareFolder != nil
	if !optionsChanged && body.ServerEndpoint == nil {
		c.JSON(http.StatusOK, configResponse(tool.GetCurrentConfig()))
		return
	}

	// options and endpoint land in one write, so a failure leaves the file as it was
	cfg, err := tool.UpdateFileConfig(func(cfg *types.AppConfig) error {
		if body.AllowWired != nil {
			cfg.AllowWired = *body.AllowWired
		}
		if body.IcmpPrecheck != nil {
			cfg.IcmpPrecheck = *body.IcmpPrecheck
		}
		if body.ShareFolder != nil {
			cfg.ShareFolder = strings.TrimSpace(*body.ShareFolder)
		}
		if body.ServerEndpoint != nil {
			cfg.ServerEndpoint = strings.TrimSpace(*body.ServerEndpoint)
		}
		return nil
	})
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to save config: %v", err)
		c.JSON(http.StatusInternalServerError, tool.FastReturnError("Failed to save settings"))
		return
	}
	if optionsChanged {
		models.RebuildClients(cfg)
	}
	if body.ServerEndpoint != nil {
		share.SetActiveEndpoint(cfg.ServerEndpoint, types.EndpointSourceSaved)
	}
	c.JSON(http.StatusOK, configResponse(cfg))
}
