package billing

// QuotaExceededError indicates the free-tier limit is spent and the account
// has no paid entitlement.
type QuotaExceededError struct{}

func (e *QuotaExceededError) Error() string {
	return "free limit reached, upgrade for unlimited generations"
}

// SignatureError rejects a webhook event whose provider signature could not
// be verified. The message is deliberately uniform: callers must not learn
// which part of verification failed.
type SignatureError struct{}

func (e *SignatureError) Error() string {
	return "webhook signature verification failed"
}
