package types

// CacheKey names a logical result set held by the query cache.
type CacheKey string

// String returns the string form of the cache key.
func (k CacheKey) String() string { return string(k) }

// Result sets refreshed after a successful diagnosis.
const (
	CacheKeyAllDiagnoses    CacheKey = "all-diagnoses"
	CacheKeyRecentDiagnoses CacheKey = "recent-diagnoses"
)

// NotificationKind selects how a notification is styled.
type NotificationKind string

// String returns the string form of the notification kind.
func (k NotificationKind) String() string { return string(k) }

const (
	NotificationSuccess     NotificationKind = "success"
	NotificationDestructive NotificationKind = "destructive"
)

// Notification is a user-facing message.
type Notification struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Kind        NotificationKind `json:"kind"`
}

// Fingerprint is a short content hash of an uploaded image.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
