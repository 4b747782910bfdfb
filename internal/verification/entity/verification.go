package entity

import "time"

// Throttle tracks how often codes were issued to a receiver. One row per
// receiver, upserted on every issue and never deleted. A zero BlockUntil
// means the receiver is not throttled.
type Throttle struct {
	Receiver     string
	SendingCount int32
	BlockUntil   time.Time
}

// Challenge is the pending verification for a receiver. At most one per
// receiver; reissuing overwrites the code and expiry in place, successful
// verification deletes the row. A zero UserBlockedUntil means the receiver
// is not locked out.
type Challenge struct {
	Receiver         string
	Code             string
	CodeExpiresAt    time.Time
	WrongAttempts    int32
	UserBlockedUntil time.Time
}

// IssuedCode is the result of issuing a new verification code.
type IssuedCode struct {
	// RemainingBlockSeconds is how long until the receiver may request
	// another code.
	RemainingBlockSeconds int64
	Code                  string
}
