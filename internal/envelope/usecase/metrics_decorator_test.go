package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	envelopeDomain "github.com/allisson/modelguard/internal/envelope/domain"
	"github.com/allisson/modelguard/internal/envelope/usecase"
	envelopeMocks "github.com/allisson/modelguard/internal/envelope/usecase/mocks"
)

type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordBytes(ctx context.Context, domain, operation string, n int64) {
	m.Called(ctx, domain, operation, n)
}

func (m *mockBusinessMetrics) expect(ctx context.Context, operation, status string) {
	m.On("RecordOperation", ctx, "envelope", operation, status).Return().Once()
	m.On("RecordDuration", ctx, "envelope", operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestContentKeyUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("StoreContentKey_Success", func(t *testing.T) {
		next := &envelopeMocks.MockContentKeyUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewContentKeyUseCaseWithMetrics(next, m)

		raw := sequentialKey(16)
		next.On("StoreContentKey", ctx, raw).Return(nil).Once()
		m.expect(ctx, "content_key_store", "success")

		assert.NoError(t, uc.StoreContentKey(ctx, raw))
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("StoreEncodedContentKey_Error", func(t *testing.T) {
		next := &envelopeMocks.MockContentKeyUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewContentKeyUseCaseWithMetrics(next, m)

		text := []byte("!!")
		next.On("StoreEncodedContentKey", ctx, text).Return(envelopeDomain.ErrInvalidContentKey).Once()
		m.expect(ctx, "content_key_store_encoded", "error")

		assert.ErrorIs(t, uc.StoreEncodedContentKey(ctx, text), envelopeDomain.ErrInvalidContentKey)
		m.AssertExpectations(t)
	})

	t.Run("LoadContentKey_Success", func(t *testing.T) {
		next := &envelopeMocks.MockContentKeyUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewContentKeyUseCaseWithMetrics(next, m)

		key, err := cryptoDomain.NewContentKey(sequentialKey(16))
		require.NoError(t, err)
		next.On("LoadContentKey", ctx).Return(key, nil).Once()
		m.expect(ctx, "content_key_load", "success")

		got, err := uc.LoadContentKey(ctx)
		assert.NoError(t, err)
		assert.Same(t, key, got)
		m.AssertExpectations(t)
	})

	t.Run("LoadContentKey_Error", func(t *testing.T) {
		next := &envelopeMocks.MockContentKeyUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewContentKeyUseCaseWithMetrics(next, m)

		next.On("LoadContentKey", ctx).Return(nil, envelopeDomain.ErrRecordMissing).Once()
		m.expect(ctx, "content_key_load", "error")

		got, err := uc.LoadContentKey(ctx)
		assert.ErrorIs(t, err, envelopeDomain.ErrRecordMissing)
		assert.Nil(t, got)
		m.AssertExpectations(t)
	})
}
