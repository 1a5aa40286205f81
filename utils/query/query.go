package query

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the page size used when the request does not send one.
	DefaultLimit = 10
	// MaxLimit caps the page size a client can ask for.
	MaxLimit = 100
)

// ListParams carries the raw query-string values of a list request.
type ListParams struct {
	OrderBy      string
	Order        string
	FilterByNome string
	FilterByUf   string
	Page         string
	Limit        string
}

// ListSpec is the normalized form a list request is executed with.
type ListSpec struct {
	NomeSubstring string // case-insensitive substring filter, empty = no filter
	UF            string // exact match, uppercased, empty = no filter
	OrderColumn   string // empty = store default order
	Descending    bool
	Offset        int
	Limit         int
}

// sortColumns maps the public orderBy names onto table columns.
var sortColumns = map[string]string{
	"nome":      "nome",
	"uf":        "uf",
	"qtdAlunos": "qtd_alunos",
}

// BuildListSpec normalizes raw list parameters into a ListSpec.
// Errors are caller mistakes and map to a 400 response.
func BuildListSpec(p ListParams) (*ListSpec, error) {
	spec := &ListSpec{
		NomeSubstring: strings.TrimSpace(p.FilterByNome),
		UF:            strings.ToUpper(strings.TrimSpace(p.FilterByUf)),
		Limit:         DefaultLimit,
	}

	if p.OrderBy != "" {
		column, ok := sortColumns[p.OrderBy]
		if !ok {
			return nil, fmt.Errorf("unknown orderBy field %q", p.OrderBy)
		}
		spec.OrderColumn = column
	}

	switch strings.ToLower(p.Order) {
	case "", "asc":
	case "desc":
		spec.Descending = true
	default:
		return nil, fmt.Errorf("order must be asc or desc, got %q", p.Order)
	}

	page := 1
	if n, err := strconv.Atoi(p.Page); err == nil && n >= 1 {
		page = n
	}

	if p.Limit != "" {
		n, err := strconv.Atoi(p.Limit)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("limit must be a positive integer, got %q", p.Limit)
		}
		spec.Limit = n
	}
	if spec.Limit > MaxLimit {
		spec.Limit = MaxLimit
	}

	spec.Offset = (page - 1) * spec.Limit

	return spec, nil
}
