package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetCorrelationID(ctx))

	ctx = SetCorrelationID(ctx, "0192f1a2-demo")
	assert.Equal(t, "0192f1a2-demo", GetCorrelationID(ctx))

	type otherKey struct{}
	ctx = context.WithValue(ctx, otherKey{}, 42)
	assert.Equal(t, "0192f1a2-demo", GetCorrelationID(ctx))
}
