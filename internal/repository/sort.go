package repository

import (
	"strings"

	"go-inventory-ledger/internal/apperr"
)

type SortField string

const (
	SortByID        SortField = "id"
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByStock     SortField = "stock"
	SortByCreatedAt SortField = "created_at"
	SortByUpdatedAt SortField = "updated_at"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// whitelist of client sort keys; the column name never comes from the client
var sortFields = map[string]SortField{
	"id":         SortByID,
	"name":       SortByName,
	"price":      SortByPrice,
	"stock":      SortByStock,
	"createdat":  SortByCreatedAt,
	"created_at": SortByCreatedAt,
	"updatedat":  SortByUpdatedAt,
	"updated_at": SortByUpdatedAt,
}

// ParseSortField resolves a client-supplied key. Empty means createdAt.
func ParseSortField(key string) (SortField, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return SortByCreatedAt, nil
	}
	field, ok := sortFields[key]
	if !ok {
		return "", apperr.Validation("sortBy", "unsupported sort field '"+key+"'")
	}
	return field, nil
}

// ParseSortOrder accepts asc or desc in any case. Empty means desc.
func ParseSortOrder(order string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return SortDesc, nil
	case "asc":
		return SortAsc, nil
	case "desc":
		return SortDesc, nil
	default:
		return "", apperr.Validation("sortOrder", "must be 'asc' or 'desc'")
	}
}

// orderClauses returns the ORDER BY terms for a listing, with id as a
// tie-breaker so equal sort keys still page deterministically
func orderClauses(field SortField, order SortOrder) []string {
	if field == "" {
		field = SortByCreatedAt
	}
	dir := "DESC"
	if order == SortAsc {
		dir = "ASC"
	}

	clauses := []string{"products." + string(field) + " " + dir}
	if field != SortByID {
		clauses = append(clauses, "products.id "+dir)
	}
	return clauses
}
