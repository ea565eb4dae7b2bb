package pushsubscription

import "time"

// Subscription is a browser push endpoint registered by one session.
type Subscription struct {
	ID        string    `yaml:"id" json:"id"`
	SessionID string    `yaml:"session_id" json:"sessionId"`
	Endpoint  string    `yaml:"endpoint" json:"endpoint"`
	P256dhKey string    `yaml:"p256dh_key" json:"p256dhKey"`
	AuthKey   string    `yaml:"auth_key" json:"authKey"`
	CreatedAt time.Time `yaml:"created_at" json:"createdAt"`
	UpdatedAt time.Time `yaml:"updated_at" json:"updatedAt"`
}
