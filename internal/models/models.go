// Package models holds the payload types shared by the material client,
// the token reader and the resource stub backend.
package models

import (
	"errors"
	"fmt"
	"strconv"
)

// Material is a teaching material record. Its fields are owned by the
// backend; the only one this module relies on is "id".
type Material map[string]any

// ID returns the material identifier rendered as a string, or an empty
// string if the record has no id.
func (m Material) ID() string {
	switch v := m["id"].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Clone returns a shallow copy of the record.
func (m Material) Clone() Material {
	if m == nil {
		return nil
	}
	result := make(Material, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// MaterialIDs is the batch-delete payload.
type MaterialIDs []string

// PageInfo is one page of materials.
type PageInfo struct {
	Current  int        `json:"current"`
	PageSize int        `json:"pageSize"`
	Total    int        `json:"total"`
	Records  []Material `json:"records"`
}

// DeleteResult reports how many materials a delete request removed.
type DeleteResult struct {
	Deleted int `json:"deleted"`
}

// UserInfo is the default shape of the stored session token.
type UserInfo struct {
	ID       int64    `json:"id"`
	Username string   `json:"username,omitempty"`
	Token    string   `json:"token,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

var ErrMaterialNotFound = errors.New("material not found")

var ErrMaterialWithoutID = errors.New("material has no id")

var ErrInvalidPage = errors.New("invalid page")
