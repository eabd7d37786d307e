package solana

import "context"

// WSClient defines the Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeSignature subscribes to the confirmation of one
	// transaction signature. The channel receives exactly one
	// notification; the node cancels the subscription after firing.
	SubscribeSignature(ctx context.Context, signature string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification represents a signature subscription message.
// Err is non-nil when the transaction failed on-chain.
type SignatureNotification struct {
	Signature string
	Slot      int64
	Err       interface{}
}
