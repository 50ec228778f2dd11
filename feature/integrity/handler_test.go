package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"inventory-tracker/core/database"
	"inventory-tracker/core/storage/mocks"
	"inventory-tracker/feature/inventory/store"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupSQLite opens a migrated in-memory database.
func setupSQLite(t *testing.T) (*gorm.DB, *store.GormStore) {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	s := store.New(db)
	require.NoError(t, s.Migrate(context.Background(), []string{"NSW", "VIC"}))
	return db, s
}

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	db, _ := setupSQLite(t)
	app := fiber.New()
	client := new(mocks.Client)
	NewHandler(NewService(db, client, "test-bucket", "", zap.NewNop())).RegisterRoutes(app)
	return app, client
}

func emptyListing() <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo)
	close(ch)
	return ch
}

func decode(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleSchemaCheck(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/schema", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, true, body["matched"])
}

func TestHandleArchiveCheck(t *testing.T) {
	app, client := setupTestApp(t)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
	client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(emptyListing())

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "checked", body["status"])
}

func TestHandleArchiveCheck_Fix(t *testing.T) {
	app, client := setupTestApp(t)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive?fix=true", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.Equal(t, "fixed", body["status"])
	client.AssertCalled(t, "MakeBucket", mock.Anything, "test-bucket", mock.Anything)
}

func TestHandleArchiveCheck_FixFails(t *testing.T) {
	app, client := setupTestApp(t)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(errors.New("denied"))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive?fix=1", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleArchiveCheck_Disabled(t *testing.T) {
	db, _ := setupSQLite(t)
	app := fiber.New()
	NewHandler(NewService(db, nil, "", "", zap.NewNop())).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, client := setupTestApp(t)
	client.On("BucketExists", mock.Anything, "test-bucket").Return(false, errors.New("offline"))

	resp, err := app.Test(httptest.NewRequest("GET", "/integrity", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decode(t, resp.Body)
	archive := body["archive"].(map[string]any)
	assert.Equal(t, "error", archive["status"])
	schema := body["schema"].(map[string]any)
	assert.Equal(t, true, schema["matched"])
}
