package storefront_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-mirror/core/database"
	catalogmodels "catalog-mirror/feature/catalog/models"
	"catalog-mirror/feature/storefront"
	"catalog-mirror/feature/storefront/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, catalogmodels.All()...))
	require.NoError(t, database.Migrate(db, models.All()...))
	require.NoError(t, db.Create(&catalogmodels.DefaultOfferTypes).Error)
	require.NoError(t, db.Create(&[]catalogmodels.Item{
		{ID: 1, ArtistID: 10, Name: "Delta", OfferType: "buy_button", Currency: "EUR", LastModified: time.Now()},
		{ID: 2, ArtistID: 10, Name: "Alpha", OfferType: "email_for_media", LastModified: time.Now()},
	}).Error)

	feature := storefront.NewFeature(db, storefront.Config{ImageSize: "large"}, zap.NewNop())
	assert.Equal(t, "storefront", feature.Name())
	assert.True(t, feature.IsEnabled())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func TestStoreRoutes(t *testing.T) {
	app := setupApp(t)

	status, body := doJSON(t, app, "POST", "/stores", `{
		"name": "Merch",
		"artist_id": 10,
		"items_per_page": 1,
		"offer_types": ["buy_button", "email_for_media"],
		"featured_items": [2]
	}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))

	var created models.Store
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "Merch", created.Name)
	assert.Len(t, created.OfferTypes, 4)

	t.Run("Get", func(t *testing.T) {
		status, body := doJSON(t, app, "GET", "/stores/1", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(body), `"name":"Merch"`)
	})

	t.Run("Items page", func(t *testing.T) {
		status, body := doJSON(t, app, "GET", "/stores/1/items?page=2", "")
		require.Equal(t, fiber.StatusOK, status)

		var page storefront.Page
		require.NoError(t, json.Unmarshal(body, &page))
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 2, page.TotalPages)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0].ID)
	})

	t.Run("Featured", func(t *testing.T) {
		status, body := doJSON(t, app, "GET", "/stores/1/featured", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(body), `"name":"Alpha"`)
	})

	t.Run("Update with bad offer type", func(t *testing.T) {
		status, _ := doJSON(t, app, "PUT", "/stores/1", `{"artist_id": 10, "offer_types": ["vinyl"]}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run("Filtered items", func(t *testing.T) {
		status, body := doJSON(t, app, "GET", "/items?offer_types=buy_button&artist_id=10", "")
		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(body), `"currency_symbol":"€"`)
		assert.NotContains(t, string(body), `"Alpha"`)
	})

	t.Run("Delete", func(t *testing.T) {
		status, _ := doJSON(t, app, "DELETE", "/stores/1?force=true", "")
		assert.Equal(t, fiber.StatusNoContent, status)

		status, _ = doJSON(t, app, "GET", "/stores/1", "")
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}

func TestStoreRoutes_BadRequests(t *testing.T) {
	app := setupApp(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"Non numeric id", "GET", "/stores/abc", "", fiber.StatusBadRequest},
		{"Malformed body", "POST", "/stores", `{"name":`, fiber.StatusBadRequest},
		{"Missing artist", "POST", "/stores", `{"name":"x"}`, fiber.StatusBadRequest},
		{"Unknown store items", "GET", "/stores/42/items", "", fiber.StatusNotFound},
		{"Unknown store delete", "DELETE", "/stores/42", "", fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := doJSON(t, app, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, status)
		})
	}
}
