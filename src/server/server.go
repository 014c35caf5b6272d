package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"portfolio-viewer/src/interfaces"
	"portfolio-viewer/src/logger"
	"portfolio-viewer/src/models"
	"portfolio-viewer/src/presenter"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// PortfolioServer
// -----------------------------------------------------------------------------

type PortfolioServer struct {
	Config    *models.MConfig
	Logger    *logger.Logger
	Portfolio interfaces.IPortfolioView
	Journal   interfaces.ILoadJournal // Optional
	engine    *gin.Engine
	http      *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MViewMessage // Strongly typed and Buffered Queue
	register   chan *Client
	unregister chan *Client
	direct     chan directMessage
	quit       chan struct{}
	stopOnce   sync.Once

	// Local cache
	latestUpdate int64
	connections  int
	stateMutex   sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewPortfolioServer(cfg *models.MConfig, logger *logger.Logger, portfolio interfaces.IPortfolioView, journal interfaces.ILoadJournal) *PortfolioServer {
	// Set Gin mode
	if strings.ToUpper(cfg.LogLevel) != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &PortfolioServer{
		Config:    cfg,
		Logger:    logger,
		Portfolio: portfolio,
		Journal:   journal,
		engine:    gin.New(),
		clients:   make(map[*Client]struct{}),
		// Queue size of 256 absorbs bursts of search updates
		broadcast:  make(chan *models.MViewMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan directMessage),
		quit:       make(chan struct{}),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *PortfolioServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/portfolio", s.getPortfolio)
	api.POST("/portfolio/load", s.postLoad)
	api.GET("/portfolio/search", s.getSearch)
	api.POST("/portfolio/search", s.postSearch)
	api.GET("/holdings", s.getHoldings)
	api.GET("/health", s.getHealth)
	api.GET("/journal", s.getJournal)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for httptest.
func (s *PortfolioServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Run starts the hub without the HTTP listener. Start calls it.
func (s *PortfolioServer) Run() {
	views, cancel := s.Portfolio.Subscribe()
	go s.handleWebsockets()
	go s.forwardViews(views, cancel)
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) Start() error {
	s.Logger.Info("Starting server on %s", s.http.Addr)

	s.Run()

	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.quit)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.http.Shutdown(ctx)
	})
	return err
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *PortfolioServer) getPortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, s.Portfolio.State())
}

// -----------------------------------------------------------------------------

// postLoad triggers a fetch. With ?wait=true it answers with the final view,
// otherwise 202 with the Loading view.
func (s *PortfolioServer) postLoad(c *gin.Context) {
	done := s.Portfolio.Load(c.Request.Context())

	if !queryBool(c, "wait") {
		c.JSON(http.StatusAccepted, s.Portfolio.State())
		return
	}

	select {
	case <-done:
		c.JSON(http.StatusOK, s.Portfolio.State())
	case <-c.Request.Context().Done():
		// Client went away; the load continues in the background
	}
}

// -----------------------------------------------------------------------------

type searchRequest struct {
	Query string `json:"query"`
}

func (s *PortfolioServer) postSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid search request"})
		return
	}
	s.search(c, req.Query)
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) getSearch(c *gin.Context) {
	s.search(c, c.Query("q"))
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) search(c *gin.Context, query string) {
	if !s.Portfolio.Search(query) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "portfolio is not loaded",
			"view":  s.Portfolio.State(),
		})
		return
	}
	c.JSON(http.StatusOK, s.Portfolio.State())
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) getHoldings(c *gin.Context) {
	view := s.Portfolio.State()
	resp := gin.H{
		"state": view.Kind(),
		"rows":  presenter.Rows(view),
	}
	switch v := view.(type) {
	case models.ContentView:
		if len(v.Visible) == 0 {
			resp["message"] = presenter.EmptyMessage
		}
	case models.ErrorView:
		resp["message"] = v.Message
	case models.LoadingView:
	}
	c.JSON(http.StatusOK, resp)
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := s.connections
	timestamp := s.latestUpdate
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"state":         s.Portfolio.State().Kind(),
		"connections":   connections,
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *PortfolioServer) getJournal(c *gin.Context) {
	if s.Journal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "load journal is disabled"})
		return
	}

	limit := queryInt(c, "limit", 20)
	if limit <= 0 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	events, err := s.Journal.RecentLoads(limit)
	if err != nil {
		s.Logger.Error("Failed to read journal: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read journal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// Websocket methods live in hub.go
