package solana

import (
	"context"
	"fmt"
	"time"
)

// Confirmation defaults.
const (
	DefaultConfirmInterval = 2 * time.Second
	DefaultConfirmTimeout  = 90 * time.Second
)

// SignatureConfirmer waits until a submitted transaction signature
// reaches at least confirmed commitment, or fails.
type SignatureConfirmer interface {
	WaitForConfirmation(ctx context.Context, signature string) error
}

// PollingConfirmer confirms signatures by polling getSignatureStatuses.
type PollingConfirmer struct {
	rpc      *HTTPClient
	interval time.Duration
	timeout  time.Duration
}

// NewPollingConfirmer creates a polling confirmer. Zero interval or
// timeout fall back to the defaults.
func NewPollingConfirmer(rpc *HTTPClient, interval, timeout time.Duration) *PollingConfirmer {
	if interval <= 0 {
		interval = DefaultConfirmInterval
	}
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &PollingConfirmer{rpc: rpc, interval: interval, timeout: timeout}
}

// Compile-time interface check.
var _ SignatureConfirmer = (*PollingConfirmer)(nil)

// WaitForConfirmation polls until the signature is confirmed or the
// timeout elapses.
func (p *PollingConfirmer) WaitForConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		statuses, err := p.rpc.GetSignatureStatuses(ctx, []string{signature})
		if err == nil && len(statuses) > 0 && statuses[0] != nil {
			status := statuses[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on-chain: %v", signature, status.Err)
			}
			if status.ConfirmationStatus == "confirmed" || status.ConfirmationStatus == "finalized" {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation of %s: %w", signature, ctx.Err())
		case <-ticker.C:
		}
	}
}

// WSConfirmer confirms signatures through a signatureSubscribe
// WebSocket subscription.
type WSConfirmer struct {
	ws      WSClient
	timeout time.Duration
}

// NewWSConfirmer creates a WebSocket-based confirmer.
func NewWSConfirmer(ws WSClient, timeout time.Duration) *WSConfirmer {
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &WSConfirmer{ws: ws, timeout: timeout}
}

// Compile-time interface check.
var _ SignatureConfirmer = (*WSConfirmer)(nil)

// WaitForConfirmation blocks until the subscription fires or the
// timeout elapses.
func (w *WSConfirmer) WaitForConfirmation(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	ch, err := w.ws.SubscribeSignature(ctx, signature)
	if err != nil {
		return fmt.Errorf("subscribe signature: %w", err)
	}

	select {
	case notif, ok := <-ch:
		if !ok {
			return fmt.Errorf("confirmation of %s: subscription closed", signature)
		}
		if notif.Err != nil {
			return fmt.Errorf("transaction %s failed on-chain: %v", signature, notif.Err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("confirmation of %s: %w", signature, ctx.Err())
	}
}
