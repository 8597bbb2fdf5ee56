package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/docscan-go/api/controllers"
	"github.com/moyoez/docscan-go/api/middlewares"
	"github.com/moyoez/docscan-go/api/notifyhub"
	"github.com/moyoez/docscan-go/tool"
)

// Server is the local control API the scanner screens talk to.
type Server struct {
	host   string
	port   int
	hub    *notifyhub.Hub
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer creates a control API server bound to host:port. hub may be nil to disable /notify-ws.
func NewServer(host string, port int, hub *notifyhub.Hub) *Server {
	if host == "" {
		host = "127.0.0.1"
	}
	return &Server{
		host: host,
		port: port,
		hub:  hub,
	}
}

// Handler builds the route table; exposed for tests.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.setupRoutes()
	}
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	self := engine.Group("/api/self/v1", middlewares.OnlyAllowLocal)
	{
		self.GET("/status", controllers.UserStatus)
		self.GET("/network-info", controllers.UserGetNetworkInfo)     // connectivity reading used by discovery
		self.GET("/scan-now", controllers.UserScanNow)                // guess and probe the server now
		self.GET("/endpoint", controllers.UserGetEndpoint)            // endpoint uploads go to
		self.POST("/test-connection", controllers.UserTestConnection) // probe one endpoint, 5s
		self.GET("/config", controllers.UserConfigGet)                // saved settings
		self.PATCH("/config", controllers.UserConfigPatch)            // save endpoint / options
		self.GET("/session", controllers.UserSessionGet)              // captured pages
		self.POST("/session/images", controllers.UserSessionAddImage) // add a capture
		self.POST("/session/next", controllers.UserSessionNext)       // page forward
		self.POST("/session/prev", controllers.UserSessionPrev)       // page back
		self.DELETE("/session", controllers.UserSessionReset)         // retake
		self.POST("/send", controllers.UserSend)                      // upload first capture
		self.POST("/share", controllers.UserShare)                    // local share of first capture
		self.GET("/server-status", controllers.UserServerStatus)      // companion server status
		self.GET("/create-qr-code", controllers.GenerateQRCode)       // QR of data or endpoint URL
		if s.hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}
	return engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting control API on http://%s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
