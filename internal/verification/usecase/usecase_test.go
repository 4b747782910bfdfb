package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takonote/verigate/internal/pkg/config"
	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/otp"
	"github.com/takonote/verigate/internal/pkg/validator"
	"github.com/takonote/verigate/internal/verification/entity"
)

const testReceiver = "79024327692"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// fakeStore keeps records in memory and mimics the transactional store:
// mutations inside a failed closure are rolled back, mutations inside a
// successful closure commit.
type fakeStore struct {
	mu         sync.Mutex
	throttles  map[string]entity.Throttle
	challenges map[string]entity.Challenge
	clients    map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		throttles:  map[string]entity.Throttle{},
		challenges: map[string]entity.Challenge{},
		clients:    map[string]string{},
	}
}

func (s *fakeStore) WithinReceiverTx(ctx context.Context, receiver string, fn func(ctx context.Context, tx TxStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshotTh := make(map[string]entity.Throttle, len(s.throttles))
	for k, v := range s.throttles {
		snapshotTh[k] = v
	}
	snapshotCh := make(map[string]entity.Challenge, len(s.challenges))
	for k, v := range s.challenges {
		snapshotCh[k] = v
	}

	if err := fn(ctx, (*fakeTx)(s)); err != nil {
		s.throttles = snapshotTh
		s.challenges = snapshotCh
		return err
	}
	return nil
}

func (s *fakeStore) GetClientPhoneByPassport(_ context.Context, passportNumber string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	phone, ok := s.clients[passportNumber]
	if !ok {
		return "", goerror.ErrNotFound
	}
	return phone, nil
}

type fakeTx fakeStore

func (t *fakeTx) GetThrottle(_ context.Context, receiver string) (*entity.Throttle, error) {
	th, ok := t.throttles[receiver]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &th, nil
}

func (t *fakeTx) SaveThrottle(_ context.Context, th entity.Throttle) error {
	t.throttles[th.Receiver] = th
	return nil
}

func (t *fakeTx) GetChallenge(_ context.Context, receiver string) (*entity.Challenge, error) {
	ch, ok := t.challenges[receiver]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (t *fakeTx) SaveChallenge(_ context.Context, ch entity.Challenge) error {
	t.challenges[ch.Receiver] = ch
	return nil
}

func (t *fakeTx) DeleteChallenge(_ context.Context, receiver string) error {
	delete(t.challenges, receiver)
	return nil
}

type captureSMS struct {
	sent []string
	err  error
}

func (c *captureSMS) Send(_ context.Context, _, message string) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, message)
	return nil
}

type fixture struct {
	uc    *Usecase
	store *fakeStore
	clock *fakeClock
	sms   *captureSMS
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	gen, err := otp.NewNumeric(6)
	require.NoError(t, err)

	cfg, err := config.NewViperFromBytes("yaml", []byte("{}"))
	require.NoError(t, err)

	store := newFakeStore()
	clk := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	sms := &captureSMS{}

	uc := New(Dependency{
		RepoDB:     store,
		SMS:        sms,
		Validator:  v,
		Config:     cfg,
		OTP:        gen,
		Clock:      clk,
		Instrument: instrument.NewNoop(),
	})

	return &fixture{uc: uc, store: store, clock: clk, sms: sms}
}

func (f *fixture) issue(t *testing.T) *RequestCodeOutput {
	t.Helper()
	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Receiver: testReceiver})
	require.NoError(t, err)
	return out
}

func TestRequestCode_FirstIssue(t *testing.T) {
	f := newFixture(t)

	out := f.issue(t)

	assert.Equal(t, int64(30), out.RemainingBlockSeconds)
	assert.Regexp(t, `^[0-9]{6}$`, out.Code)

	require.Len(t, f.sms.sent, 1)
	assert.Equal(t, "Your verification code: "+out.Code, f.sms.sent[0])

	th := f.store.throttles[testReceiver]
	assert.Equal(t, int32(1), th.SendingCount)

	ch := f.store.challenges[testReceiver]
	assert.Equal(t, out.Code, ch.Code)
	assert.Equal(t, f.clock.now.Add(15*time.Minute), ch.CodeExpiresAt)
	assert.Zero(t, ch.WrongAttempts)
}

func TestRequestCode_BlockedWhileWindowOpen(t *testing.T) {
	f := newFixture(t)
	f.issue(t)

	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Receiver: testReceiver})
	require.Error(t, err)
	assert.Equal(t, int64(30), goerror.RemainingSeconds(err))

	// No mutation while blocked.
	assert.Equal(t, int32(1), f.store.throttles[testReceiver].SendingCount)
	assert.Len(t, f.sms.sent, 1)
}

func TestRequestCode_ExponentialThenFlatBackoff(t *testing.T) {
	f := newFixture(t)

	wantWindows := []int64{30, 60, 120, 240, 480, 600, 600}
	for i, want := range wantWindows {
		out := f.issue(t)
		assert.Equal(t, want, out.RemainingBlockSeconds, "issue %d", i+1)
		f.clock.Advance(time.Duration(want) * time.Second)
	}

	// The counter clamps at the cap once the flat window is reached.
	assert.Equal(t, int32(5), f.store.throttles[testReceiver].SendingCount)
}

func TestRequestCode_DistinctReceiversIndependent(t *testing.T) {
	f := newFixture(t)
	f.issue(t)

	out, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Receiver: "79990001122"})
	require.NoError(t, err)
	assert.Equal(t, int64(30), out.RemainingBlockSeconds)
}

func TestRequestCode_DeliveryFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	f.sms.err = errors.New("gateway timeout")

	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Receiver: testReceiver})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeInternal, ge.Code())

	// Nothing persisted: the next request is not throttled.
	assert.Empty(t, f.store.throttles)
	assert.Empty(t, f.store.challenges)

	f.sms.err = nil
	out := f.issue(t)
	assert.Equal(t, int64(30), out.RemainingBlockSeconds)
}

func TestRequestCode_PreservesWrongAttemptsOnReissue(t *testing.T) {
	f := newFixture(t)
	f.issue(t)

	wrongErr := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"})
	require.Error(t, wrongErr)

	f.clock.Advance(30 * time.Second)
	f.issue(t)

	assert.Equal(t, int32(1), f.store.challenges[testReceiver].WrongAttempts)
}

func TestRequestCode_InvalidReceiver(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.RequestCode(context.Background(), RequestCodeInput{Receiver: "not-a-phone"})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.TypeValidation, ge.Type())
}

func TestVerifyCode_SuccessConsumesChallenge(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	require.NoError(t, f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code}))
	assert.NotContains(t, f.store.challenges, testReceiver)

	// The record is gone, so the same code cannot be used twice.
	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestVerifyCode_NoChallenge(t *testing.T) {
	f := newFixture(t)

	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "914023"})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestVerifyCode_WrongCodeIncrementsCounter(t *testing.T) {
	f := newFixture(t)
	f.issue(t)

	for i := 1; i <= 3; i++ {
		err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"})
		require.Error(t, err)

		var ge *goerror.Error
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, goerror.CodeInvalidCode, ge.Code())
		assert.Equal(t, int32(i), f.store.challenges[testReceiver].WrongAttempts)
	}
}

func TestVerifyCode_FourthAttemptLocksOut(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	for range 3 {
		require.Error(t, f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"}))
	}

	// The fourth attempt trips the lock even with the correct code.
	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code})
	require.Error(t, err)
	assert.Equal(t, int64(600), goerror.RemainingSeconds(err))

	ch := f.store.challenges[testReceiver]
	assert.Zero(t, ch.WrongAttempts)
	assert.Equal(t, f.clock.now.Add(10*time.Minute), ch.UserBlockedUntil)
}

func TestVerifyCode_BlockedUserNoMutation(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	for range 4 {
		require.Error(t, f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"}))
	}
	before := f.store.challenges[testReceiver]

	f.clock.Advance(5 * time.Minute)
	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code})
	require.Error(t, err)
	assert.Equal(t, int64(300), goerror.RemainingSeconds(err))
	assert.Equal(t, before, f.store.challenges[testReceiver])
}

func TestVerifyCode_LockExpiresThenSucceeds(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	for range 4 {
		require.Error(t, f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"}))
	}

	f.clock.Advance(10*time.Minute + time.Second)
	require.NoError(t, f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code}))
}

func TestVerifyCode_ExpiredCodeReportsExpired(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	f.clock.Advance(15*time.Minute + time.Second)

	// Match is checked before expiry, so the correct value reports expired
	// while a wrong value still reports invalid.
	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code})
	require.Error(t, err)
	assert.Equal(t, "Verification code is expired", err.Error())

	err = f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: "000000"})
	require.Error(t, err)
	assert.Equal(t, "Verification code is invalid", err.Error())
}

func TestSetBlock(t *testing.T) {
	f := newFixture(t)
	out := f.issue(t)

	require.NoError(t, f.uc.SetBlock(context.Background(), SetBlockInput{Receiver: testReceiver}))

	err := f.uc.VerifyCode(context.Background(), VerifyCodeInput{Receiver: testReceiver, Code: out.Code})
	require.Error(t, err)
	assert.Equal(t, int64(600), goerror.RemainingSeconds(err))
}

func TestSetBlock_NoChallenge(t *testing.T) {
	f := newFixture(t)

	err := f.uc.SetBlock(context.Background(), SetBlockInput{Receiver: testReceiver})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestFindReceiver(t *testing.T) {
	f := newFixture(t)
	f.store.clients["7816123456"] = testReceiver

	out, err := f.uc.FindReceiver(context.Background(), FindReceiverInput{PassportNumber: "7816123456"})
	require.NoError(t, err)
	assert.Equal(t, testReceiver, out.MobilePhone)

	_, err = f.uc.FindReceiver(context.Background(), FindReceiverInput{PassportNumber: "0000000000"})
	require.Error(t, err)

	var ge *goerror.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, goerror.CodeNotFound, ge.Code())
}

func TestRemainingSeconds(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(30), remainingSeconds(now, now.Add(30*time.Second)))
	assert.Equal(t, int64(31), remainingSeconds(now, now.Add(30*time.Second+time.Millisecond)))
	assert.Equal(t, int64(1), remainingSeconds(now, now.Add(10*time.Millisecond)))
	assert.Equal(t, int64(1), remainingSeconds(now, now.Add(-time.Minute)))
}
