package analytics

import "time"

const (
	TopicURLCreated  = "url.created"
	TopicURLAccessed = "url.accessed"
)

// URLCreatedEvent is emitted when a new short URL is allocated.
type URLCreatedEvent struct {
	ShortURL    int64     `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	RequestID   string    `json:"requestId,omitempty"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// URLAccessedEvent is emitted when a short URL redirects.
type URLAccessedEvent struct {
	ShortURL    int64     `json:"shortUrl"`
	OriginalURL string    `json:"originalUrl"`
	AccessedAt  time.Time `json:"accessedAt"`
	RequestID   string    `json:"requestId,omitempty"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
	Referrer    string    `json:"referrer"`
}
