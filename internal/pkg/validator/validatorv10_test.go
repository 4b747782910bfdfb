package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phonePayload struct {
	Receiver string `validate:"required,phone"`
}

func TestV10Validator_Phone(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		payload phonePayload
		wantErr bool
	}{
		{name: "valid 11 digits", payload: phonePayload{Receiver: "79024327692"}},
		{name: "valid 10 digits", payload: phonePayload{Receiver: "9024327692"}},
		{name: "valid 15 digits", payload: phonePayload{Receiver: "790243276921234"}},
		{name: "too short", payload: phonePayload{Receiver: "902432769"}, wantErr: true},
		{name: "too long", payload: phonePayload{Receiver: "7902432769212345"}, wantErr: true},
		{name: "non digits", payload: phonePayload{Receiver: "+7902432769"}, wantErr: true},
		{name: "empty", payload: phonePayload{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestV10Validator_FieldKeysAreSnakeCase(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	type payload struct {
		PassportNumber string `validate:"required"`
	}

	vErr := v.Validate(payload{})
	require.Error(t, vErr)

	var fields V10ValidationError
	require.ErrorAs(t, vErr, &fields)
	assert.Contains(t, fields.Values(), "passport_number")
}
