package integrity

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"catalog-mirror/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleStorageCheck(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "snapshots").Return(false, nil)
	mockClient.On("MakeBucket", mock.Anything, "snapshots", mock.Anything).Return(nil)

	app := fiber.New()
	feature := NewFeature(mockClient, nil, Options{Bucket: "snapshots", SnapshotKeys: []string{"artists.json"}}, zap.NewNop())
	require.NoError(t, feature.Load(app))

	t.Run("Check", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var report map[string]any
		require.NoError(t, json.Unmarshal(body, &report))
		assert.Equal(t, false, report["exists"])
		assert.Equal(t, []any{"artists.json"}, report["missing"])
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Fix", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/integrity/storage?fix=true", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), `"status":"fixed"`)
		mockClient.AssertCalled(t, "MakeBucket", mock.Anything, "snapshots", minio.MakeBucketOptions{})
	})
}

func TestHandleIntegrityCheck_WithoutDatabase(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("BucketExists", mock.Anything, "snapshots").Return(true, nil)

	app := fiber.New()
	require.NoError(t, NewFeature(mockClient, nil, Options{Bucket: "snapshots"}, zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var report map[string]map[string]any
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, "error", report["schema"]["status"])
	assert.Equal(t, true, report["storage"]["exists"])
}

func TestHandleSchemaCheck_WithoutDatabase(t *testing.T) {
	app := fiber.New()
	require.NoError(t, NewFeature(nil, nil, Options{}, zap.NewNop()).Load(app))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
