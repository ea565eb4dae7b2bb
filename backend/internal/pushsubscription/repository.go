package pushsubscription

import "context"

// Repository stores subscriptions keyed by endpoint; an endpoint belongs
// to at most one session.
type Repository interface {
	// Save creates the subscription or replaces the one with the same
	// endpoint, keeping its ID.
	Save(ctx context.Context, s *Subscription) error
	// List returns the subscriptions of sessionID, or all when it is empty.
	List(ctx context.Context, sessionID string) ([]*Subscription, error)
	FindByEndpoint(ctx context.Context, endpoint string) (*Subscription, error)
	Delete(ctx context.Context, id string) error
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}
