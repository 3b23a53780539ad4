package checks

import (
	"context"
	"testing"

	"catalog-mirror/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func objects(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestCheckStorage(t *testing.T) {
	ctx := context.Background()
	keys := []string{"prefetch/artists.json", "prefetch/offers-7.json"}

	t.Run("Bucket missing", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "snapshots").Return(false, nil)

		report, err := CheckStorage(ctx, m, "snapshots", keys)
		require.NoError(t, err)
		assert.False(t, report.Exists)
		assert.Equal(t, keys, report.Missing)
	})

	t.Run("Some snapshots missing", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)
		m.On("ListObjects", mock.Anything, "snapshots", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
			return o.Prefix == "prefetch/artists.json"
		})).Return(objects("prefetch/artists.json"))
		m.On("ListObjects", mock.Anything, "snapshots", mock.Anything).Return(objects())

		report, err := CheckStorage(ctx, m, "snapshots", keys)
		require.NoError(t, err)
		assert.True(t, report.Exists)
		assert.Equal(t, []string{"prefetch/offers-7.json"}, report.Missing)
	})

	t.Run("Check fails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", mock.Anything, "snapshots").Return(false, assert.AnError)

		_, err := CheckStorage(ctx, m, "snapshots", keys)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestFixStorage(t *testing.T) {
	m := new(mocks.Client)
	m.On("BucketExists", mock.Anything, "snapshots").Return(false, nil)
	m.On("MakeBucket", mock.Anything, "snapshots", minio.MakeBucketOptions{Region: "eu-west-1"}).Return(nil)

	assert.NoError(t, FixStorage(context.Background(), m, "snapshots", "eu-west-1", zap.NewNop()))
	m.AssertExpectations(t)
}
