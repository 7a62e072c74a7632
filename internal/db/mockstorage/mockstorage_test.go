package mockstorage

import "github.com/patric-chuzhbe/materials/internal/db/storage"

var _ storage.Storage = (*StorageMock)(nil)
