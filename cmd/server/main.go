// Package main runs the token service: an HTTP API that mints SPL
// tokens from off-chain metadata and revokes mint/freeze authorities.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/joho/godotenv"

	"solana-token-forge/internal/metadata"
	"solana-token-forge/internal/minting"
	"solana-token-forge/internal/server"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/storage/memory"
	"solana-token-forge/internal/storage/migrations"
	pgstore "solana-token-forge/internal/storage/postgres"
	"solana-token-forge/internal/wallet"
)

const defaultRPCEndpoint = "https://api.devnet.solana.com"

func main() {
	// Load .env file if exists
	_ = godotenv.Load()

	// Parse flags (env vars as defaults)
	httpAddr := flag.String("http-addr", envOr("PORT", "3000"), "HTTP listen address or port")
	rpcEndpoint := flag.String("rpc-endpoint", envOr("SOLANA_RPC_ENDPOINT", defaultRPCEndpoint), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint (optional, enables WS confirmation)")
	keypairPath := flag.String("keypair", os.Getenv("WALLET_KEYPAIR_PATH"), "Path to the service wallet keypair file")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (optional, enables persistent creation ledger)")
	cluster := flag.String("cluster", envOr("SOLANA_CLUSTER", "devnet"), "Cluster name for explorer links (devnet, testnet, mainnet-beta)")
	decimals := flag.Uint("decimals", uint(minting.DefaultDecimals), "Token decimals")
	initialSupply := flag.Uint64("initial-supply", minting.DefaultInitialSupply, "Initial whole-token supply minted to the service wallet")
	confirmTimeout := flag.Duration("confirm-timeout", solana.DefaultConfirmTimeout, "Transaction confirmation timeout")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *keypairPath == "" {
		logger.Fatal("--keypair is required (or set WALLET_KEYPAIR_PATH)")
	}
	if *decimals > 255 {
		logger.Fatal("--decimals must fit in a byte")
	}

	// The service wallet is loaded once at startup; every transaction
	// signs with it.
	feePayer, err := wallet.Load(*keypairPath)
	if err != nil {
		logger.Fatalf("Failed to load wallet: %v", err)
	}
	logger.Printf("Service wallet: %s", feePayer.PublicKey.ToBase58())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// RPC clients: the SDK client submits transactions, the read client
	// inspects accounts and signature statuses.
	sdkClient := minting.NewSDKClient(client.NewClient(*rpcEndpoint))
	rpcClient := solana.NewHTTPClient(*rpcEndpoint)

	confirmer, closeConfirmer, err := buildConfirmer(ctx, *wsEndpoint, rpcClient, *confirmTimeout, logger)
	if err != nil {
		logger.Fatalf("Failed to connect confirmer: %v", err)
	}
	defer closeConfirmer()

	records, closeStore, err := buildRecordStore(ctx, *postgresDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to create creation ledger: %v", err)
	}
	defer closeStore()

	minter := minting.NewMinter(minting.MinterOptions{
		Client:        sdkClient,
		Confirmer:     confirmer,
		FeePayer:      feePayer,
		Cluster:       *cluster,
		Decimals:      uint8(*decimals),
		InitialSupply: *initialSupply,
	})

	revoker := minting.NewRevoker(minting.RevokerOptions{
		Reader:    rpcClient,
		Client:    sdkClient,
		Confirmer: confirmer,
		Authority: feePayer,
	})

	srv, err := server.NewServer(server.Options{
		Addr:    listenAddr(*httpAddr),
		Fetcher: metadata.NewHTTPFetcher(),
		Minter:  minter,
		Revoker: revoker,
		Records: records,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatalf("Failed to create server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("Received signal %v, shutting down", sig)
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Printf("Shutdown error: %v", err)
	}
	logger.Println("Server stopped")
}

// buildConfirmer prefers a WebSocket subscription when an endpoint is
// configured and falls back to polling otherwise.
func buildConfirmer(ctx context.Context, wsEndpoint string, rpc *solana.HTTPClient, timeout time.Duration, logger *log.Logger) (solana.SignatureConfirmer, func(), error) {
	if wsEndpoint == "" {
		logger.Println("Confirming transactions by polling")
		return solana.NewPollingConfirmer(rpc, 0, timeout), func() {}, nil
	}

	wsClient, err := solana.NewWSClient(ctx, wsEndpoint, nil)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("Confirming transactions over WebSocket: %s", wsEndpoint)
	return solana.NewWSConfirmer(wsClient, timeout), func() {
		if err := wsClient.Close(); err != nil {
			logger.Printf("WebSocket close error: %v", err)
		}
	}, nil
}

// buildRecordStore returns the persistent creation ledger when a DSN is
// configured and an in-memory one otherwise.
func buildRecordStore(ctx context.Context, dsn string, logger *log.Logger) (storage.CreationRecordStore, func(), error) {
	if dsn == "" {
		logger.Println("Using in-memory creation ledger")
		return memory.NewCreationRecordStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Println("Using PostgreSQL creation ledger")
	return pgstore.NewCreationRecordStore(pool), pool.Close, nil
}

// listenAddr normalizes a bare port ("3000") into a listen address.
func listenAddr(addr string) string {
	if addr == "" {
		return ":3000"
	}
	if !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

// envOr returns the environment value or a fallback.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
