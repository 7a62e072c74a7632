// Package router serves the teaching materials resource from a storage.
// It is the development stand-in for the real backend and answers with the
// same methods and paths the material client uses.
package router

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/materials/internal/gzippedhttp"
	"github.com/patric-chuzhbe/materials/internal/logger"
	"github.com/patric-chuzhbe/materials/internal/models"
)

type storage interface {
	GetMaterial(ctx context.Context, id string) (models.Material, error)
	UpdateMaterial(ctx context.Context, material models.Material) error
	DeleteMaterial(ctx context.Context, id string) error
	DeleteMaterials(ctx context.Context, ids []string) (int, error)
	GetMaterialsPage(ctx context.Context, current, pageSize int) (models.PageInfo, error)
	AllMaterials(ctx context.Context) ([]models.Material, error)
	Ping(ctx context.Context) error
}

// Router holds the handlers of the material endpoints.
type Router struct {
	db storage
}

type errorResponse struct {
	Error string `json:"error"`
}

// New builds the chi router serving the material endpoints from db.
func New(db storage) *chi.Mux {
	myRouter := Router{db: db}

	router := chi.NewRouter()
	router.Use(logger.WithLoggingHTTPMiddleware)
	router.Use(gzippedhttp.UngzipRequest)
	router.Use(gzippedhttp.GzipResponse)
	router.Get(`/resource/download`, myRouter.GetResourcedownload)
	router.Get(`/resource/delete/{id}`, myRouter.GetResourcedelete)
	router.Get(`/resource/deleteBatch`, myRouter.GetResourcedeletebatch)
	router.Get(`/resource/get/{id}`, myRouter.GetResourceget)
	router.Put(`/resource/update`, myRouter.PutResourceupdate)
	router.Put(`/resource/page/{current}/{pageSize}`, myRouter.PutResourcepage)
	router.Get(`/ping`, myRouter.GetPing)

	return router
}

// GetResourcedownload exports every material as CSV. The id column comes
// first, the other fields follow in alphabetical order.
func (router *Router) GetResourcedownload(response http.ResponseWriter, request *http.Request) {
	materials, err := router.db.AllMaterials(request.Context())
	if err != nil {
		logger.Log.Debugln("Error calling the `router.db.AllMaterials()`: ", zap.Error(err))
		writeError(response, http.StatusInternalServerError, err)
		return
	}

	columns := []string{"id"}
	for _, material := range materials {
		for field := range material {
			if field != "id" && !funk.ContainsString(columns, field) {
				columns = append(columns, field)
			}
		}
	}
	sort.Strings(columns[1:])

	response.Header().Set("Content-Type", "text/csv; charset=utf-8")
	response.Header().Set("Content-Disposition", `attachment; filename="materials.csv"`)
	response.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(response)
	if err := writer.Write(columns); err != nil {
		logger.Log.Debugln("Error writing the CSV header: ", zap.Error(err))
		return
	}
	for _, material := range materials {
		row := make([]string, len(columns))
		for i, column := range columns {
			row[i] = csvCell(material, column)
		}
		if err := writer.Write(row); err != nil {
			logger.Log.Debugln("Error writing a CSV row: ", zap.Error(err))
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		logger.Log.Debugln("Error flushing the CSV: ", zap.Error(err))
	}
}

// GetResourcedelete deletes one material.
func (router *Router) GetResourcedelete(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	err := router.db.DeleteMaterial(request.Context(), id)
	if err != nil {
		writeStorageError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.DeleteResult{Deleted: 1})
}

// GetResourcedeletebatch deletes the materials whose ids are listed in
// the JSON request body.
func (router *Router) GetResourcedeletebatch(response http.ResponseWriter, request *http.Request) {
	var ids models.MaterialIDs
	if err := json.NewDecoder(request.Body).Decode(&ids); err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	deleted, err := router.db.DeleteMaterials(request.Context(), ids)
	if err != nil {
		writeStorageError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, models.DeleteResult{Deleted: deleted})
}

// GetResourceget returns one material.
func (router *Router) GetResourceget(response http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	material, err := router.db.GetMaterial(request.Context(), id)
	if err != nil {
		writeStorageError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, material)
}

// PutResourceupdate merges the material in the request body into the
// stored one and returns the result.
func (router *Router) PutResourceupdate(response http.ResponseWriter, request *http.Request) {
	var material models.Material
	if err := json.NewDecoder(request.Body).Decode(&material); err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	if err := router.db.UpdateMaterial(request.Context(), material); err != nil {
		writeStorageError(response, err)
		return
	}

	updated, err := router.db.GetMaterial(request.Context(), material.ID())
	if err != nil {
		writeStorageError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, updated)
}

// PutResourcepage returns one page of materials.
func (router *Router) PutResourcepage(response http.ResponseWriter, request *http.Request) {
	current, err := strconv.Atoi(chi.URLParam(request, "current"))
	if err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}
	pageSize, err := strconv.Atoi(chi.URLParam(request, "pageSize"))
	if err != nil {
		writeError(response, http.StatusBadRequest, err)
		return
	}

	page, err := router.db.GetMaterialsPage(request.Context(), current, pageSize)
	if err != nil {
		writeStorageError(response, err)
		return
	}

	writeJSON(response, http.StatusOK, page)
}

// GetPing reports whether the storage is reachable.
func (router *Router) GetPing(response http.ResponseWriter, request *http.Request) {
	if err := router.db.Ping(request.Context()); err != nil {
		logger.Log.Debugln("Error calling the `router.db.Ping()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	response.WriteHeader(http.StatusOK)
}

func csvCell(material models.Material, column string) string {
	if column == "id" {
		return material.ID()
	}

	switch v := material[column].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func writeStorageError(response http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrMaterialNotFound):
		writeError(response, http.StatusNotFound, err)
	case errors.Is(err, models.ErrMaterialWithoutID), errors.Is(err, models.ErrInvalidPage):
		writeError(response, http.StatusBadRequest, err)
	default:
		logger.Log.Debugln("Storage error: ", zap.Error(err))
		writeError(response, http.StatusInternalServerError, err)
	}
}

func writeError(response http.ResponseWriter, status int, err error) {
	writeJSON(response, status, errorResponse{Error: err.Error()})
}

func writeJSON(response http.ResponseWriter, status int, payload any) {
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(status)

	if err := json.NewEncoder(response).Encode(payload); err != nil {
		logger.Log.Debugln("Error calling the `json.NewEncoder(response).Encode()`: ", zap.Error(err))
	}
}
