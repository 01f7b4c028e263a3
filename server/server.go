// Package server exposes a session and its column store to a browser front-end
// over HTTP and websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/xhad/columnar/internal/models"
	"github.com/xhad/columnar/internal/types"
	"github.com/xhad/columnar/pkg/llm"
	"github.com/xhad/columnar/pkg/session"
	"github.com/xhad/columnar/pkg/store"
	"github.com/xhad/columnar/pkg/table"
	"go.uber.org/zap"
)

type Config struct {
	Addr            string
	DataFilename    string
	ContentFilename string
	// AllowedOrigins restricts websocket origins; empty allows any.
	AllowedOrigins []string
}

type Server struct {
	config   Config
	session  *session.Session
	columns  types.ColumnStore
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// Message is the websocket envelope in both directions.
type Message struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

const (
	MsgExtractRow     = "extract_row"
	MsgExtractContent = "extract_content"
	MsgReset          = "reset"

	MsgStatus  = "status"
	MsgRow     = "row"
	MsgContent = "content"
	MsgError   = "error"
)

func New(config Config, sess *session.Session, columns types.ColumnStore, logger *zap.Logger) *Server {
	if config.Addr == "" {
		config.Addr = ":8080"
	}
	if config.DataFilename == "" {
		config.DataFilename = table.DataFilename
	}
	if config.ContentFilename == "" {
		config.ContentFilename = table.ContentFilename
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config:  config,
		session: sess,
		columns: columns,
		logger:  logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("GET /api/columns", s.handleListColumns)
	mux.HandleFunc("POST /api/columns", s.handleAddColumn)
	mux.HandleFunc("PUT /api/columns/{id}", s.handleUpdateColumn)
	mux.HandleFunc("DELETE /api/columns/{id}", s.handleDeleteColumn)

	mux.HandleFunc("GET /api/rows", s.handleListRows)
	mux.HandleFunc("POST /api/rows", s.handleExtractRow)
	mux.HandleFunc("DELETE /api/rows", s.handleReset)
	mux.HandleFunc("POST /api/rows/{id}/content", s.handleExtractContent)

	mux.HandleFunc("GET /api/content", s.handleContent)
	mux.HandleFunc("GET /api/export/rows", s.handleExportRows)
	mux.HandleFunc("GET /api/export/content", s.handleExportContent)

	mux.HandleFunc("GET /ws", s.handleWebSocket)

	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.config.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.config.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	for _, allowed := range s.config.AllowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

type columnRequest struct {
	Name           string `json:"name"`
	ExtractionRule string `json:"extractionRule"`
}

type extractRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleListColumns(w http.ResponseWriter, r *http.Request) {
	cols, err := s.columns.Columns(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cols)
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("column name is required"))
		return
	}

	col, err := s.columns.AddColumn(r.Context(), req.Name, req.ExtractionRule)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("column added", zap.String("column_id", col.ID), zap.String("name", col.Name))
	writeJSON(w, http.StatusCreated, col)
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	var req columnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("column name is required"))
		return
	}

	col := models.Column{
		ID:             r.PathValue("id"),
		Name:           strings.TrimSpace(req.Name),
		ExtractionRule: strings.TrimSpace(req.ExtractionRule),
	}
	if err := s.columns.UpdateColumn(r.Context(), col); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, col)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	if err := s.columns.DeleteColumn(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Rows())
}

func (s *Server) handleExtractRow(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	row, err := s.session.ExtractRowText(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExtractContent(w http.ResponseWriter, r *http.Request) {
	records, err := s.session.ExtractContent(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type contentResponse struct {
	Records []models.ContentRecord `json:"records"`
	Raw     string                 `json:"raw"`
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, contentResponse{
		Records: s.session.Preview(),
		Raw:     s.session.RawContent(),
	})
}

func (s *Server) handleExportRows(w http.ResponseWriter, r *http.Request) {
	data, err := s.session.ExportRows(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeDownload(w, s.config.DataFilename, data)
}

func (s *Server) handleExportContent(w http.ResponseWriter, r *http.Request) {
	data, err := s.session.ExportContent()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeDownload(w, s.config.ContentFilename, data)
}

// wsConn serializes writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ws := &wsConn{conn: conn}

	// In-flight messages finish before the connection closes.
	var wg sync.WaitGroup
	defer wg.Wait()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read ended", zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			s.sendMessage(ws, MsgError, fmt.Sprintf("invalid message: %v", err), nil)
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handleMessage(ctx, ws, msg)
		}()
	}
}

func (s *Server) handleMessage(ctx context.Context, ws *wsConn, msg Message) {
	switch msg.Type {
	case MsgExtractRow:
		s.sendMessage(ws, MsgStatus, "extracting row", nil)
		row, err := s.session.ExtractRowText(ctx, msg.Content)
		if err != nil {
			s.sendMessage(ws, MsgError, err.Error(), errorData(err))
			return
		}
		s.sendMessage(ws, MsgRow, row.ID, row)

	case MsgExtractContent:
		s.sendMessage(ws, MsgStatus, fmt.Sprintf("extracting content for row %s", msg.Content), nil)
		records, err := s.session.ExtractContent(ctx, msg.Content)
		if err != nil {
			s.sendMessage(ws, MsgError, err.Error(), errorData(err))
			return
		}
		s.sendMessage(ws, MsgContent, msg.Content, records)

	case MsgReset:
		s.session.Reset()
		s.sendMessage(ws, MsgStatus, "reset", nil)

	default:
		s.sendMessage(ws, MsgError, fmt.Sprintf("unknown message type %q", msg.Type), nil)
	}
}

func (s *Server) sendMessage(ws *wsConn, msgType string, content string, data interface{}) {
	msg := Message{
		Type:    msgType,
		Content: content,
		Data:    data,
	}
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if err := ws.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("error sending message", zap.Error(err))
	}
}

// statusCode maps domain errors onto HTTP statuses.
func statusCode(err error) int {
	var (
		verr *table.ValidationError
		rce  *llm.RemoteCallError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &rce):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, session.ErrEmptyInput), errors.Is(err, session.ErrNoColumns):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrRowNotFound),
		errors.Is(err, session.ErrNoContentExport),
		errors.Is(err, store.ErrColumnNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RawOutput string `json:"rawOutput,omitempty"`
}

func errorBody(msg string) errorResponse {
	return errorResponse{Error: msg}
}

func errorData(err error) interface{} {
	var rce *llm.RemoteCallError
	if errors.As(err, &rce) && rce.RawOutput != "" {
		return errorResponse{Error: err.Error(), RawOutput: rce.RawOutput}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}

	body := errorBody(err.Error())
	var rce *llm.RemoteCallError
	if errors.As(err, &rce) {
		body.RawOutput = rce.RawOutput
	}
	writeJSON(w, code, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 10<<20)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid request body: %v", err)))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeDownload(w http.ResponseWriter, filename, data string) {
	w.Header().Set("Content-Type", table.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(data))
}
