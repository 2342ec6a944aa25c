package relevance

// Bucket classifies a relevance score for reports and notifications.
type Bucket string

const (
	BucketHigh   Bucket = "high"
	BucketMedium Bucket = "medium"
	BucketLow    Bucket = "low"
)

// Thresholds are the bucket boundaries. A score of High is classified
// high; [Medium, High) medium; everything below Medium is low. Both the
// HTML report and the webhook payload must classify through the same
// Thresholds value so the tiers can never drift apart.
type Thresholds struct {
	High   int
	Medium int
}

// DefaultThresholds matches the report tiers of the stock configuration.
var DefaultThresholds = Thresholds{High: 60, Medium: 30}

// For returns the bucket for a score.
func (t Thresholds) For(score int) Bucket {
	switch {
	case score >= t.High:
		return BucketHigh
	case score >= t.Medium:
		return BucketMedium
	default:
		return BucketLow
	}
}
