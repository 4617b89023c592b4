package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"price-quoter/src/helpers"
	"price-quoter/src/interfaces"
	"price-quoter/src/logger"
	"price-quoter/src/models"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 10 * time.Second

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

// Dependencies are the components exposed over HTTP. Store and Transport may
// be nil.
type Dependencies struct {
	Board     interfaces.IBoard
	Form      interfaces.IFormStore
	Selector  interfaces.IFormSelector
	Pricer    interfaces.IPricer
	Store     interfaces.IQuoteStore
	Transport interfaces.ITransport
}

type APIServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	deps   Dependencies
	engine *gin.Engine
	srv    *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MBoardState
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once

	// Local cache
	latestState *models.MBoardState
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, log *logger.Logger, deps Dependencies) *APIServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	initial := deps.Board.Snapshot("INITIAL")
	s := &APIServer{
		Config:  cfg,
		Logger:  log,
		deps:    deps,
		engine:  gin.New(),
		clients: make(map[*Client]struct{}),
		// Buffered so board listeners never block the controller
		broadcast:   make(chan *models.MBoardState, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		quit:        make(chan struct{}),
		latestState: &initial,
	}
	s.engine.Use(gin.Recovery())
	if cfg.LogLevel == "DEBUG" {
		s.engine.Use(gin.Logger())
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.engine,
	}
	deps.Board.OnChange(s.Broadcast)
	go s.handleWebsockets()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/form", s.getForm)
	api.PUT("/form", s.putForm)
	api.POST("/forget", s.postForget)
	api.GET("/slots", s.getSlots)
	api.GET("/slots/:position", s.getSlot)
	api.GET("/slots/:position/purchase", s.getPurchase)
	api.GET("/quotes/:position/latest", s.getLatestQuote)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the routes, mainly for tests.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *APIServer) Start() error {
	s.Logger.Info("Starting server on %s", s.srv.Addr)

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.quit) })
	return s.srv.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	connected := false
	if s.deps.Transport != nil {
		connected = s.deps.Transport.Connected()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"connections":      connections,
		"latest_update":    timestamp,
		"socket_connected": connected,
		"form_id":          s.deps.Pricer.FormID(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getForm(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": s.deps.Form.Fields()})
}

// -----------------------------------------------------------------------------

// formChange is the body of PUT /api/form.
type formChange struct {
	Form     string                         `json:"form"`
	FormName string                         `json:"form_name"`
	Fields   map[string]models.MFieldUpdate `json:"fields"`
}

// putForm applies a form change and starts a new price request, the way any
// edit of the trading form does.
func (s *APIServer) putForm(c *gin.Context) {
	var change formChange
	if err := c.ShouldBindJSON(&change); err != nil {
		s.rejectForm(c, helpers.NewValidationError("malformed form change", err))
		return
	}

	if change.Form != "" {
		if s.deps.Selector == nil || !s.deps.Selector.HasForm(change.Form) {
			s.rejectForm(c, helpers.NewValidationError("unknown form "+change.Form, nil))
			return
		}
		s.deps.Selector.SetForm(change.Form, change.FormName)
	}

	errs := s.deps.Form.Apply(change.Fields)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.deps.Pricer.ProcessPriceRequest(ctx); err != nil {
		s.Logger.Warning("Price request incomplete: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"errors": errs, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"errors":  errs,
		"form_id": s.deps.Pricer.FormID(),
	})
}

func (s *APIServer) rejectForm(c *gin.Context, err error) {
	s.Logger.Debug("Form change rejected: %v", err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postForget(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	if err := s.deps.Pricer.ProcessForgetProposals(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "forgotten"})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getSlots(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Board.Snapshot("INITIAL"))
}

// -----------------------------------------------------------------------------

func (s *APIServer) getSlot(c *gin.Context) {
	v, ok := s.deps.Board.Slot(c.Param("position"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such slot"})
		return
	}
	c.JSON(http.StatusOK, v)
}

// -----------------------------------------------------------------------------

// getPurchase returns the quote attributes a purchase step consumes.
func (s *APIServer) getPurchase(c *gin.Context) {
	v, ok := s.deps.Board.Slot(c.Param("position"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such slot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"visible":    v.PurchaseVisible,
		"attributes": v.Purchase,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getLatestQuote(c *gin.Context) {
	if s.deps.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "quote log disabled"})
		return
	}
	q, err := s.deps.Store.LatestQuote(c.Param("position"))
	if err != nil {
		s.Logger.Error("Latest quote lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no quote"})
		return
	}
	c.JSON(http.StatusOK, q)
}
