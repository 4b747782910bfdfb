package usecase

import (
	"context"
	"time"

	"github.com/takonote/verigate/internal/pkg/clock"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/otp"
	"github.com/takonote/verigate/internal/pkg/validator"
	"github.com/takonote/verigate/internal/verification/entity"
	"go.opentelemetry.io/otel/trace"
)

// TxStore is the per-receiver transactional view of the verification tables.
// All reads and writes inside one WithinReceiverTx call see and mutate a
// consistent snapshot serialized against other calls for the same receiver.
type TxStore interface {
	GetThrottle(ctx context.Context, receiver string) (*entity.Throttle, error)
	SaveThrottle(ctx context.Context, th entity.Throttle) error
	GetChallenge(ctx context.Context, receiver string) (*entity.Challenge, error)
	SaveChallenge(ctx context.Context, ch entity.Challenge) error
	DeleteChallenge(ctx context.Context, receiver string) error
}

type repoDB interface {
	// WithinReceiverTx runs fn in a database transaction holding a lock
	// scoped to receiver, so mutations for one receiver serialize while
	// distinct receivers proceed in parallel.
	WithinReceiverTx(ctx context.Context, receiver string, fn func(ctx context.Context, tx TxStore) error) error

	GetClientPhoneByPassport(ctx context.Context, passportNumber string) (string, error)
}

type repoSMS interface {
	Send(ctx context.Context, receiver, message string) error
}

// Usecase implements the verification engine: code issuance with resend
// throttling, verification with wrong-attempt escalation, the manual block
// override, and the passport-to-phone lookup.
type Usecase struct {
	repoDB    repoDB
	sms       repoSMS
	validator validator.Validator
	cfg       config.Config
	otp       otp.Generator
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	SMS        repoSMS
	Validator  validator.Validator
	Config     config.Config
	OTP        otp.Generator
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		sms:       dep.SMS,
		validator: dep.Validator,
		cfg:       dep.Config,
		otp:       dep.OTP,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("verification.usecase").Start(ctx, name)
}

// Policy defaults. Config keys under "verification." override each value.
const (
	defaultCodeTTL          = 15 * time.Minute
	defaultUserBlock        = 10 * time.Minute
	defaultBaseWindow       = 30 * time.Second
	defaultFlatBlock        = 600 * time.Second
	defaultMaxSendCount     = 5
	defaultMaxWrongAttempts = 3
)

func (s *Usecase) codeTTL() time.Duration {
	if d := s.cfg.GetMinute("verification.code_ttl_minute"); d > 0 {
		return d
	}
	return defaultCodeTTL
}

func (s *Usecase) userBlockDuration() time.Duration {
	if d := s.cfg.GetMinute("verification.user_block_minute"); d > 0 {
		return d
	}
	return defaultUserBlock
}

func (s *Usecase) baseWindow() time.Duration {
	if d := s.cfg.GetSecond("verification.base_window_second"); d > 0 {
		return d
	}
	return defaultBaseWindow
}

func (s *Usecase) flatBlock() time.Duration {
	if d := s.cfg.GetSecond("verification.flat_block_second"); d > 0 {
		return d
	}
	return defaultFlatBlock
}

func (s *Usecase) maxSendCount() int32 {
	if n := s.cfg.GetInt32("verification.max_send_count"); n > 0 {
		return n
	}
	return defaultMaxSendCount
}

func (s *Usecase) maxWrongAttempts() int32 {
	if n := s.cfg.GetInt32("verification.max_wrong_attempts"); n > 0 {
		return n
	}
	return defaultMaxWrongAttempts
}

// remainingSeconds reports how long until the deadline, rounded up and never
// below one second.
func remainingSeconds(now, until time.Time) int64 {
	d := until.Sub(now)
	secs := int64(d / time.Second)
	if d%time.Second > 0 {
		secs++
	}
	if secs < 1 {
		secs = 1
	}
	return secs
}
