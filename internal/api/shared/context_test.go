package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetAndGetTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	tests := []struct {
		name      string
		candidate string
		keep      bool
	}{
		{name: "caller id kept", candidate: "bridge-42.a_b", keep: true},
		{name: "empty generates", candidate: ""},
		{name: "spaces rejected", candidate: "has space"},
		{name: "newline rejected", candidate: "abc\ninjected"},
		{name: "too long rejected", candidate: string(make([]byte, 65))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTraceID(SetTraceID(ctx, tt.candidate))
			if tt.keep {
				assert.Equal(t, tt.candidate, got)
				return
			}
			_, err := uuid.Parse(got)
			assert.NoError(t, err, "generated trace id should be a uuid")
		})
	}

	assert.Empty(t, GetTraceID(ctx), "original context must be unchanged")
}

func TestGetTraceIDWithInvalidContext(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(ctx))
}

func TestUserID(t *testing.T) {
	t.Parallel()

	_, ok := GetUserID(context.Background())
	assert.False(t, ok)

	_, ok = GetUserID(WithUserID(context.Background(), ""))
	assert.False(t, ok, "empty id is not authenticated")

	id, ok := GetUserID(WithUserID(context.Background(), "123456789"))
	assert.True(t, ok)
	assert.Equal(t, "123456789", id)
}
