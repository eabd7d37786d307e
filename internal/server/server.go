// Package server exposes the HTTP API: token creation, authority
// revocation, the creation ledger, and a health check.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/metadata"
	"solana-token-forge/internal/minting"
	"solana-token-forge/internal/storage"
)

// Minter mints a new token from validated metadata.
type Minter interface {
	Mint(ctx context.Context, meta *domain.TokenMetadata, metadataURL string) (*domain.TokenCreationResult, error)
}

// Revoker strips mint/freeze authorities from an existing mint.
type Revoker interface {
	Revoke(ctx context.Context, mintAddress string, opts domain.RevokeAuthorityOptions) (*domain.RevocationResult, error)
}

// Options configures a Server. Addr, Fetcher, Minter and Revoker are
// required; Records and Logger are optional.
type Options struct {
	Addr    string
	Fetcher metadata.Fetcher
	Minter  Minter
	Revoker Revoker
	Records storage.CreationRecordStore
	Logger  *log.Logger
}

// Server is the HTTP front of the service.
type Server struct {
	addr       string
	fetcher    metadata.Fetcher
	minter     Minter
	revoker    Revoker
	records    storage.CreationRecordStore
	logger     *log.Logger
	httpServer *http.Server
}

// NewServer builds a Server from opts.
func NewServer(opts Options) (*Server, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("server: addr is required")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("server: metadata fetcher is required")
	}
	if opts.Minter == nil {
		return nil, fmt.Errorf("server: minter is required")
	}
	if opts.Revoker == nil {
		return nil, fmt.Errorf("server: revoker is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)
	}

	return &Server{
		addr:    opts.Addr,
		fetcher: opts.Fetcher,
		minter:  opts.Minter,
		revoker: opts.Revoker,
		records: opts.Records,
		logger:  logger,
	}, nil
}

// response is the uniform envelope for every JSON reply.
type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

// Handler returns the root HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Path("/create-token").HandlerFunc(s.createToken).Methods("POST")
	router.Path("/revoke-authorities").HandlerFunc(s.revokeAuthorities).Methods("POST")
	router.Path("/health").HandlerFunc(s.health).Methods("GET")
	if s.records != nil {
		router.Path("/tokens").HandlerFunc(s.listTokens).Methods("GET")
		router.Path("/tokens/{mint}").HandlerFunc(s.getToken).Methods("GET")
	}
	router.NotFoundHandler = http.HandlerFunc(s.notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.notFound)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.logger),
		handlers.PrintRecoveryStack(true),
	)
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
	)
	return recovery(cors(s.requestFilter(router)))
}

// Start blocks serving HTTP until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Handler()}
	s.logger.Printf("Listening on %s", s.addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) requestFilter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) createToken(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}

	raw, ok := fields["metadataUrl"]
	if !ok {
		writeError(w, http.StatusBadRequest, "metadataUrl is required", "")
		return
	}
	var metadataURL string
	if err := json.Unmarshal(raw, &metadataURL); err != nil || metadataURL == "" {
		writeError(w, http.StatusBadRequest, "metadataUrl must be a non-empty string", "")
		return
	}
	if err := metadata.ValidateURL(metadataURL); err != nil {
		writeError(w, http.StatusBadRequest, "metadataUrl must be a valid http(s) URL", err.Error())
		return
	}

	ctx := r.Context()
	meta, err := s.fetcher.Fetch(ctx, metadataURL)
	if err != nil {
		s.logger.Printf("Metadata fetch failed for %s: %v", metadataURL, err)
		writeError(w, createTokenStatus(err), "Failed to fetch token metadata", err.Error())
		return
	}

	result, err := s.minter.Mint(ctx, meta, metadataURL)
	if err != nil {
		s.logger.Printf("Mint failed for %q: %v", meta.Name, err)
		writeError(w, createTokenStatus(err), "Failed to create token", err.Error())
		return
	}
	s.logger.Printf("Created token %s (%s), tx %s", meta.Name, result.MintAddress, result.TransactionSignature)

	if s.records != nil {
		record := &domain.CreationRecord{
			Mint:        result.MintAddress,
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			MetadataURL: metadataURL,
			Signature:   result.TransactionSignature,
			ExplorerURL: result.ExplorerURL,
			CreatedAt:   time.Now().UnixMilli(),
		}
		if err := s.records.Insert(ctx, record); err != nil {
			// The token exists on chain regardless; the ledger is advisory.
			s.logger.Printf("Failed to record creation of %s: %v", result.MintAddress, err)
		}
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: result})
}

// createTokenStatus maps a create-token failure to an HTTP status.
// Caller-correctable input problems get 400, external failures get 500.
func createTokenStatus(err error) int {
	switch {
	case errors.Is(err, metadata.ErrInvalidURL),
		errors.Is(err, metadata.ErrUnreachable),
		errors.Is(err, metadata.ErrMalformed),
		errors.Is(err, metadata.ErrInvalidSchema),
		errors.Is(err, minting.ErrInvalidMintAddress):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// revokeRequest carries the raw revoke-authorities body. Pointers
// distinguish absent flags, which default to true.
type revokeRequest struct {
	MintAddress           *string `json:"mintAddress"`
	RevokeMintAuthority   *bool   `json:"revokeMintAuthority"`
	RevokeFreezeAuthority *bool   `json:"revokeFreezeAuthority"`
}

func (s *Server) revokeAuthorities(w http.ResponseWriter, r *http.Request) {
	var req revokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if req.MintAddress == nil || *req.MintAddress == "" {
		writeError(w, http.StatusBadRequest, "mintAddress is required", "")
		return
	}

	opts := domain.RevokeAuthorityOptions{
		RevokeMintAuthority:   true,
		RevokeFreezeAuthority: true,
	}
	if req.RevokeMintAuthority != nil {
		opts.RevokeMintAuthority = *req.RevokeMintAuthority
	}
	if req.RevokeFreezeAuthority != nil {
		opts.RevokeFreezeAuthority = *req.RevokeFreezeAuthority
	}

	result, err := s.revoker.Revoke(r.Context(), *req.MintAddress, opts)
	if err != nil {
		s.logger.Printf("Revoke failed for %s: %v", *req.MintAddress, err)
		if errors.Is(err, minting.ErrInvalidMintAddress) {
			writeError(w, http.StatusBadRequest, "mintAddress is not a valid Solana address", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to revoke authorities", err.Error())
		return
	}
	s.logger.Printf("Revoked authorities on %s: mint=%v freeze=%v",
		*req.MintAddress, result.Revoked.MintAuthority, result.Revoked.FreezeAuthority)

	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]interface{}{
		"mintAddress": *req.MintAddress,
		"signatures":  result.Signatures,
		"revoked":     result.Revoked,
		"message":     revokeMessage(result),
	}})
}

func revokeMessage(result *domain.RevocationResult) string {
	switch {
	case result.Revoked.MintAuthority && result.Revoked.FreezeAuthority:
		return "Mint and freeze authorities revoked"
	case result.Revoked.MintAuthority:
		return "Mint authority revoked"
	case result.Revoked.FreezeAuthority:
		return "Freeze authority revoked"
	default:
		return "No authorities to revoke"
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listTokens(w http.ResponseWriter, r *http.Request) {
	records, err := s.records.List(r.Context(), 100)
	if err != nil {
		s.logger.Printf("Failed to list creation records: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list tokens", err.Error())
		return
	}
	if records == nil {
		records = []*domain.CreationRecord{}
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: records})
}

func (s *Server) getToken(w http.ResponseWriter, r *http.Request) {
	mint := mux.Vars(r)["mint"]
	record, err := s.records.GetByMint(r.Context(), mint)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Token not found", "")
			return
		}
		s.logger.Printf("Failed to load creation record %s: %v", mint, err)
		writeError(w, http.StatusInternalServerError, "Failed to load token", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Data: record})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found", "")
}

func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, response{Success: false, Error: msg, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[server] Unable to write response: %v", err)
	}
}
