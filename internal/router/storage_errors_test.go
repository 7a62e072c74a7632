package router

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/materials/internal/db/mockstorage"
	"github.com/patric-chuzhbe/materials/internal/models"
)

func TestStorageFailures(t *testing.T) {
	errBroken := errors.New("disk is on fire")

	tests := []struct {
		name     string
		setup    func(db *mockstorage.StorageMock)
		method   string
		path     string
		body     string
		wantCode int
	}{
		{
			name: "download",
			setup: func(db *mockstorage.StorageMock) {
				db.On("AllMaterials", mock.Anything).Return(nil, errBroken)
			},
			method:   http.MethodGet,
			path:     "/resource/download",
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "get",
			setup: func(db *mockstorage.StorageMock) {
				db.On("GetMaterial", mock.Anything, "1").Return(nil, errBroken)
			},
			method:   http.MethodGet,
			path:     "/resource/get/1",
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "delete_batch",
			setup: func(db *mockstorage.StorageMock) {
				db.On("DeleteMaterials", mock.Anything, []string{"1"}).Return(0, errBroken)
			},
			method:   http.MethodGet,
			path:     "/resource/deleteBatch",
			body:     `["1"]`,
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "wrapped_not_found",
			setup: func(db *mockstorage.StorageMock) {
				db.On("DeleteMaterial", mock.Anything, "9").
					Return(fmt.Errorf("deleting 9: %w", models.ErrMaterialNotFound))
			},
			method:   http.MethodGet,
			path:     "/resource/delete/9",
			wantCode: http.StatusNotFound,
		},
		{
			name: "ping",
			setup: func(db *mockstorage.StorageMock) {
				db.On("Ping", mock.Anything).Return(errBroken)
			},
			method:   http.MethodGet,
			path:     "/ping",
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "page",
			setup: func(db *mockstorage.StorageMock) {
				db.On("GetMaterialsPage", mock.Anything, 1, 5).Return(models.PageInfo{}, errBroken)
			},
			method:   http.MethodPut,
			path:     "/resource/page/1/5",
			wantCode: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockstorage.StorageMock{}
			tt.setup(db)

			srv := httptest.NewServer(New(db))
			defer srv.Close()

			req := resty.New().SetAllowGetMethodPayload(true).R()
			req.Method = tt.method
			req.URL = srv.URL + tt.path
			if tt.body != "" {
				req.SetHeader("Content-Type", "application/json")
				req.SetBody(tt.body)
			}

			resp, err := req.Send()
			require.NoError(t, err)

			assert.Equal(t, tt.wantCode, resp.StatusCode())
			if tt.path != "/ping" {
				assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))
			}
			db.AssertExpectations(t)
		})
	}
}
