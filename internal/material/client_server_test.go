package material

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/materials/internal/db/memorystorage"
	"github.com/patric-chuzhbe/materials/internal/models"
	"github.com/patric-chuzhbe/materials/internal/requester"
	"github.com/patric-chuzhbe/materials/internal/router"
	"github.com/patric-chuzhbe/materials/internal/token"
)

func newClientAgainstStub(t *testing.T, optionsProto ...Option) *Client {
	t.Helper()

	db, err := memorystorage.New(
		models.Material{"id": "1", "title": "Algebra"},
		models.Material{"id": "2", "title": "Geometry"},
		models.Material{"id": "3", "title": "Physics"},
	)
	require.NoError(t, err)

	srv := httptest.NewServer(router.New(db))
	t.Cleanup(srv.Close)

	tokens := token.NewMemoryStore()
	tokens.Set(`{"id":1,"username":"lecturer","token":"secret"}`)

	return New(requester.New(srv.URL, 5*time.Second, tokens), optionsProto...)
}

func TestClientAgainstStubBackend(t *testing.T) {
	ctx := context.Background()
	client := newClientAgainstStub(t)

	resp, err := client.GetMaterial(ctx, "2")
	require.NoError(t, err)
	var material models.Material
	require.NoError(t, resp.Decode(&material))
	assert.Equal(t, models.Material{"id": "2", "title": "Geometry"}, material)

	resp, err = client.UpdateMaterial(ctx, models.Material{"id": "2", "title": "Geometry II"})
	require.NoError(t, err)
	require.NoError(t, resp.Decode(&material))
	assert.Equal(t, "Geometry II", material["title"])

	resp, err = client.DeleteMaterialBatch(ctx, models.MaterialIDs{"1", "404"})
	require.NoError(t, err)
	var deleted models.DeleteResult
	require.NoError(t, resp.Decode(&deleted))
	assert.Equal(t, 1, deleted.Deleted)

	_, err = client.DeleteMaterial(ctx, "3")
	require.NoError(t, err)

	resp, err = client.GetMaterialPageInfo(ctx, 1, 10)
	require.NoError(t, err)
	var page models.PageInfo
	require.NoError(t, resp.Decode(&page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, []models.Material{{"id": "2", "title": "Geometry II"}}, page.Records)

	resp, err = client.DownloadMaterials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "id,title\n2,Geometry II\n", string(resp.Body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "materials.csv")
}

func TestClientAgainstStubBackendErrors(t *testing.T) {
	ctx := context.Background()

	_, err := newClientAgainstStub(t).GetMaterial(ctx, "404")
	var statusErr *requester.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)

	_, err = newClientAgainstStub(t, WithLegacyUpdate(true)).UpdateMaterial(ctx, models.Material{"id": "1"})
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode, "the stub rejects a body-less update")
}
