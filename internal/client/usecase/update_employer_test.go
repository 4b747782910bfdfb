package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/takonote/verigate/internal/pkg/goerror"
	"github.com/takonote/verigate/internal/pkg/instrument"
	"github.com/takonote/verigate/internal/pkg/validator"
)

type fakeClientRepo struct {
	updates map[string]string
	err     error
}

func (f *fakeClientRepo) UpdateEmployer(_ context.Context, clientID, ein string) error {
	if f.err != nil {
		return f.err
	}
	if f.updates == nil {
		f.updates = map[string]string{}
	}
	f.updates[clientID] = ein
	return nil
}

func newClientFixture(repo *fakeClientRepo) *Usecase {
	v, _ := validator.NewV10Validator()
	return New(Dependency{
		RepoDB:     repo,
		Validator:  v,
		Instrument: instrument.NewNoop(),
	})
}

func TestUsecase_UpdateEmployer(t *testing.T) {
	const clientID = "0190b6d0-5b3a-7c6e-9f2a-3d4e5f6a7b8c"

	t.Run("AppliesUpdate", func(t *testing.T) {
		repo := &fakeClientRepo{}
		uc := newClientFixture(repo)

		err := uc.UpdateEmployer(context.Background(), UpdateEmployerInput{
			ClientID:                     clientID,
			EmployerIdentificationNumber: "771234567890",
		})
		assert.NoError(t, err)
		assert.Equal(t, "771234567890", repo.updates[clientID])
	})

	t.Run("InvalidPayloadIsDropped", func(t *testing.T) {
		repo := &fakeClientRepo{}
		uc := newClientFixture(repo)

		err := uc.UpdateEmployer(context.Background(), UpdateEmployerInput{
			ClientID:                     "not-a-uuid",
			EmployerIdentificationNumber: "771234567890",
		})
		assert.NoError(t, err)
		assert.Empty(t, repo.updates)
	})

	t.Run("UnknownClientIsDropped", func(t *testing.T) {
		repo := &fakeClientRepo{err: goerror.ErrNotFound}
		uc := newClientFixture(repo)

		err := uc.UpdateEmployer(context.Background(), UpdateEmployerInput{
			ClientID:                     clientID,
			EmployerIdentificationNumber: "771234567890",
		})
		assert.NoError(t, err)
	})

	t.Run("RepoFailureIsRetried", func(t *testing.T) {
		repo := &fakeClientRepo{err: errors.New("connection reset")}
		uc := newClientFixture(repo)

		err := uc.UpdateEmployer(context.Background(), UpdateEmployerInput{
			ClientID:                     clientID,
			EmployerIdentificationNumber: "771234567890",
		})
		assert.Error(t, err)
	})
}
