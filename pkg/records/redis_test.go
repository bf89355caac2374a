package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seaterrors "github.com/matzehuels/seatmap/pkg/errors"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newMockRedisStore(t *testing.T) (*RedisStore, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "")
	s.now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})
	return s, mock
}

func TestRedisStoreGet(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectGet("seatmap:layout:coach").SetVal(`{"id":"coach","layout":[{"id":"a"}],"updatedAt":"2026-01-02T03:04:05Z"}`)

	rec, err := s.Get(context.Background(), "coach")
	require.NoError(t, err)
	assert.Equal(t, "coach", rec.ID)
	assert.JSONEq(t, `[{"id":"a"}]`, string(rec.Layout))
	assert.True(t, rec.UpdatedAt.Equal(fixedNow))
}

func TestRedisStoreGetMissing(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectGet("seatmap:layout:coach").RedisNil()

	_, err := s.Get(context.Background(), "coach")
	assert.True(t, seaterrors.Is(err, seaterrors.ErrCodeLayoutNotFound), "got %v", err)
}

func TestRedisStoreGetError(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectGet("seatmap:layout:coach").SetErr(errors.New("connection refused"))

	_, err := s.Get(context.Background(), "coach")
	assert.True(t, seaterrors.Is(err, seaterrors.ErrCodeStorage), "got %v", err)
}

func TestRedisStoreGetCorrupt(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectGet("seatmap:layout:coach").SetVal(`not json`)

	_, err := s.Get(context.Background(), "coach")
	assert.True(t, seaterrors.Is(err, seaterrors.ErrCodeStorage), "got %v", err)
}

func TestRedisStoreSet(t *testing.T) {
	s, mock := newMockRedisStore(t)
	want := []byte(`{"id":"coach","layout":[],"updatedAt":"2026-01-02T03:04:05Z"}`)
	mock.ExpectSet("seatmap:layout:coach", want, 0).SetVal("OK")

	require.NoError(t, s.Set(context.Background(), "coach", []byte(`[]`)))
}

func TestRedisStoreSetRejectsInvalidJSON(t *testing.T) {
	s, _ := newMockRedisStore(t)
	err := s.Set(context.Background(), "coach", []byte(`[`))
	assert.True(t, seaterrors.Is(err, seaterrors.ErrCodeInvalidLayout), "got %v", err)
}

func TestRedisStoreSetValidatesID(t *testing.T) {
	s, _ := newMockRedisStore(t)
	err := s.Set(context.Background(), "../x", []byte(`[]`))
	assert.True(t, seaterrors.Is(err, seaterrors.ErrCodeInvalidInput), "got %v", err)
}

func TestRedisStoreDelete(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectDel("seatmap:layout:coach").SetVal(1)

	require.NoError(t, s.Delete(context.Background(), "coach"))
}

func TestRedisStoreList(t *testing.T) {
	s, mock := newMockRedisStore(t)
	mock.ExpectScan(0, "seatmap:layout:*", redisScanCount).SetVal([]string{"seatmap:layout:minibus"}, 7)
	mock.ExpectScan(7, "seatmap:layout:*", redisScanCount).SetVal([]string{"seatmap:layout:coach"}, 0)

	ids, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"coach", "minibus"}, ids)
}

func TestRedisStoreCustomPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	s := NewRedisStore(db, "fleet:")
	mock.ExpectDel("fleet:coach").SetVal(0)

	require.NoError(t, s.Delete(context.Background(), "coach"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
