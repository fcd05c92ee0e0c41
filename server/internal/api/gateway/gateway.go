// Gateway API implementation
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"GostCipher/server/internal/pkg/codepage"
	"GostCipher/server/internal/pkg/encryption"
	"GostCipher/server/internal/pkg/helpers"
	"GostCipher/server/internal/protocol"
	"GostCipher/server/internal/services/auth"
	"GostCipher/server/internal/services/cipher"
)

// Server represents the API gateway
type Server struct {
	addr      string
	authSvc   *auth.Service
	cipherSvc *cipher.Service
	log       *helpers.Logger
	timeout   time.Duration
	maxBody   int64

	// WebSocket write deadline
	writeTimeout time.Duration

	mu         sync.RWMutex
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	hubOnce    sync.Once
}

// Client represents a connected WebSocket client
type Client struct {
	name   string
	conn   *websocket.Conn
	send   chan interface{}
	server *Server

	// ctx is cancelled when readPump returns
	ctx    context.Context
	cancel context.CancelFunc

	// done is closed when writePump exits
	done chan struct{}
}

// Option configures a gateway server
type Option func(*Server)

// WithRequestTimeout bounds the time spent on a single operation
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes limits request body and WebSocket frame sizes
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractToken extracts the token from "Bearer <token>" format
func extractToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// New creates a new gateway server
func New(addr string, authSvc *auth.Service, cipherSvc *cipher.Service, opts ...Option) *Server {
	s := &Server{
		addr:       addr,
		authSvc:    authSvc,
		cipherSvc:  cipherSvc,
		log:        helpers.NewLogger("Gateway"),
		timeout:    5 * time.Second,
		maxBody:    protocol.MaxFrameSize,

		writeTimeout: protocol.WriteTimeout,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router and starts the client hub
func (s *Server) Handler() http.Handler {
	s.hubOnce.Do(func() { go s.runHub() })

	router := mux.NewRouter()

	// Root endpoint - return OK for health checks
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("GOST Cipher API Server"))
	}).Methods("GET", "OPTIONS")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/cipher", s.handleCipherInfo).Methods("GET", "OPTIONS")
	api.HandleFunc("/codepage", s.handleCodepage).Methods("GET", "OPTIONS")
	api.HandleFunc("/encrypt", s.handleEncrypt).Methods("POST", "OPTIONS")
	api.HandleFunc("/decrypt", s.handleDecrypt).Methods("POST", "OPTIONS")
	api.HandleFunc("/keys", s.handleListKeys).Methods("GET", "OPTIONS")
	api.HandleFunc("/keys/{keyID}", s.handleRegisterKey).Methods("PUT", "OPTIONS")
	api.HandleFunc("/keys/{keyID}", s.handleRemoveKey).Methods("DELETE", "OPTIONS")

	// WebSocket endpoint
	router.HandleFunc("/ws", s.handleWebSocket)

	return corsMiddleware(router)
}

// Start starts the gateway server
func (s *Server) Start() error {
	handler := s.Handler()
	s.log.Info("listening", s.addr)
	return http.ListenAndServe(s.addr, handler)
}

// ClientCount returns the number of connected WebSocket clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == "OPTIONS" || !s.authSvc.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := s.authSvc.ValidateToken(extractToken(r.Header.Get("Authorization"))); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleCipherInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cipherSvc.Info())
}

func (s *Server) handleCodepage(w http.ResponseWriter, r *http.Request) {
	codes := codepage.Codes()
	entries := make([]protocol.CodepageEntry, 0, len(codes))
	for _, code := range codes {
		entries = append(entries, protocol.CodepageEntry{Code: code, Symbol: string(codepage.SymbolOf(code))})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"size":         codepage.Size(),
		"padding_code": codepage.PaddingCode,
		"sentinel":     string(codepage.Sentinel),
		"entries":      entries,
	})
}

func (s *Server) handleEncrypt(w http.ResponseWriter, r *http.Request) {
	var req protocol.EncryptRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	resp, err := s.cipherSvc.Encrypt(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecrypt(w http.ResponseWriter, r *http.Request) {
	var req protocol.DecryptRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	resp, err := s.cipherSvc.Decrypt(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"key_ids": s.cipherSvc.KeyIDs()})
}

func (s *Server) handleRegisterKey(w http.ResponseWriter, r *http.Request) {
	keyID := mux.Vars(r)["keyID"]

	var req protocol.KeyRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := s.cipherSvc.RegisterKey(keyID, req.Key); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.KeyResponse{KeyID: keyID, Status: "registered"})
}

func (s *Server) handleRemoveKey(w http.ResponseWriter, r *http.Request) {
	keyID := mux.Vars(r)["keyID"]
	if err := s.cipherSvc.RemoveKey(keyID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, protocol.KeyResponse{KeyID: keyID, Status: "removed"})
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := "anonymous"
	if s.authSvc.Enabled() {
		// Try to get token from query parameter first (preferred for WebSocket)
		token := r.URL.Query().Get("token")
		if token == "" {
			token = extractToken(r.Header.Get("Authorization"))
		}
		claims, err := s.authSvc.ValidateToken(token)
		if err != nil {
			s.log.Warn("WebSocket connection rejected", err.Error())
			writeError(w, err)
			return
		}
		name = claims.Client
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("WebSocket upgrade failed", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		name:   name,
		conn:   conn,
		send:   make(chan interface{}, 64),
		server: s,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.register <- client
	s.log.Info("WebSocket client connected", name)

	// Start reading and writing goroutines
	go client.readPump()
	go client.writePump()
}

// runHub keeps track of connected clients
func (s *Server) runHub() {
	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			s.mu.Unlock()

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.mu.Unlock()
			s.log.Info("WebSocket client disconnected", client.name)
		}
	}
}

// readPump reads one request per frame and queues one response per request
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.server.maxBody)
	c.conn.SetReadDeadline(time.Now().Add(protocol.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(protocol.ReadTimeout))
		return nil
	})

	for {
		var req protocol.WebSocketRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				if !c.queue(errorFrame("", "", fmt.Errorf("invalid frame: %v", err))) {
					return
				}
				continue
			}
			break
		}
		c.conn.SetReadDeadline(time.Now().Add(protocol.ReadTimeout))
		if !c.queue(c.server.process(c.ctx, &req)) {
			return
		}
	}
}

// queue hands a response to writePump. It reports false once writePump
// has exited and nothing will ever drain send.
func (c *Client) queue(message interface{}) bool {
	select {
	case c.send <- message:
		return true
	case <-c.done:
		c.server.log.Warn("dropping response for closed client", c.name)
		return false
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(protocol.PingPeriod)
	defer func() {
		ticker.Stop()
		close(c.done)
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.server.writeTimeout))
			if !ok {
				// Channel closed
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.server.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Server) process(parent context.Context, req *protocol.WebSocketRequest) *protocol.GatewayResponse {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	var (
		data interface{}
		err  error
	)
	switch req.Op {
	case protocol.OpEncrypt:
		data, err = s.cipherSvc.Encrypt(ctx, &protocol.EncryptRequest{Text: req.Text, Key: req.Key, KeyID: req.KeyID})
	case protocol.OpDecrypt:
		data, err = s.cipherSvc.Decrypt(ctx, &protocol.DecryptRequest{Ciphertext: req.Ciphertext, Key: req.Key, KeyID: req.KeyID})
	default:
		err = fmt.Errorf("unknown op %q", req.Op)
	}
	if err != nil {
		return errorFrame(req.ID, req.Op, err)
	}

	return &protocol.GatewayResponse{
		ID:        req.ID,
		Type:      req.Op,
		Status:    "success",
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

func errorFrame(id, op string, err error) *protocol.GatewayResponse {
	_, code := classify(err)
	return &protocol.GatewayResponse{
		ID:        id,
		Type:      op,
		Status:    "error",
		Error:     err.Error(),
		Code:      code,
		Timestamp: time.Now().Unix(),
	}
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, protocol.ErrorResponse{
			Error: "Invalid request body",
			Code:  protocol.CodeBadRequest,
		})
		return false
	}
	return true
}

// classify maps service errors onto HTTP statuses and protocol error codes
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, encryption.ErrUnknownSymbol):
		return http.StatusBadRequest, protocol.CodeUnknownSymbol
	case errors.Is(err, encryption.ErrKeyLength):
		return http.StatusBadRequest, protocol.CodeKeyLength
	case errors.Is(err, encryption.ErrNotBinary):
		return http.StatusBadRequest, protocol.CodeNotBinary
	case errors.Is(err, encryption.ErrLengthMismatch):
		return http.StatusBadRequest, protocol.CodeLengthMismatch
	case errors.Is(err, cipher.ErrUnknownKey):
		return http.StatusNotFound, protocol.CodeUnknownKey
	case errors.Is(err, cipher.ErrKeyStore):
		return http.StatusInternalServerError, protocol.CodeInternal
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, protocol.CodeUnauthorized
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, protocol.CodeInternal
	default:
		return http.StatusBadRequest, protocol.CodeBadRequest
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, protocol.ErrorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
