package query

import (
	"testing"
)

func TestBuildListSpecDefaults(t *testing.T) {
	spec, err := BuildListSpec(ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.OrderColumn != "" {
		t.Errorf("expected no order column, got %q", spec.OrderColumn)
	}
	if spec.Descending {
		t.Error("expected ascending by default")
	}
	if spec.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, spec.Limit)
	}
	if spec.Offset != 0 {
		t.Errorf("expected offset 0, got %d", spec.Offset)
	}
	if spec.NomeSubstring != "" || spec.UF != "" {
		t.Errorf("expected no filters, got nome=%q uf=%q", spec.NomeSubstring, spec.UF)
	}
}

func TestBuildListSpecSorting(t *testing.T) {
	tests := []struct {
		orderBy    string
		order      string
		wantColumn string
		wantDesc   bool
	}{
		{"nome", "", "nome", false},
		{"nome", "asc", "nome", false},
		{"uf", "desc", "uf", true},
		{"qtdAlunos", "DESC", "qtd_alunos", true},
	}

	for _, tt := range tests {
		spec, err := BuildListSpec(ListParams{OrderBy: tt.orderBy, Order: tt.order})
		if err != nil {
			t.Fatalf("orderBy=%q order=%q: unexpected error: %v", tt.orderBy, tt.order, err)
		}
		if spec.OrderColumn != tt.wantColumn {
			t.Errorf("orderBy=%q: expected column %q, got %q", tt.orderBy, tt.wantColumn, spec.OrderColumn)
		}
		if spec.Descending != tt.wantDesc {
			t.Errorf("order=%q: expected descending=%v", tt.order, tt.wantDesc)
		}
	}
}

func TestBuildListSpecRejectsUnknownOrderBy(t *testing.T) {
	if _, err := BuildListSpec(ListParams{OrderBy: "id"}); err == nil {
		t.Error("expected error for unsortable field")
	}
	if _, err := BuildListSpec(ListParams{OrderBy: "nome", Order: "sideways"}); err == nil {
		t.Error("expected error for bad order direction")
	}
}

func TestBuildListSpecPagination(t *testing.T) {
	tests := []struct {
		page       string
		limit      string
		wantOffset int
		wantLimit  int
	}{
		{"", "", 0, DefaultLimit},
		{"1", "10", 0, 10},
		{"2", "10", 10, 10},
		{"3", "5", 10, 5},
		// page < 1 or non-numeric is treated as 1
		{"0", "10", 0, 10},
		{"-4", "10", 0, 10},
		{"abc", "10", 0, 10},
		// limit capped, offset computed from the capped value
		{"2", "500", 100, 100},
	}

	for _, tt := range tests {
		spec, err := BuildListSpec(ListParams{Page: tt.page, Limit: tt.limit})
		if err != nil {
			t.Fatalf("page=%q limit=%q: unexpected error: %v", tt.page, tt.limit, err)
		}
		if spec.Offset != tt.wantOffset {
			t.Errorf("page=%q limit=%q: expected offset %d, got %d", tt.page, tt.limit, tt.wantOffset, spec.Offset)
		}
		if spec.Limit != tt.wantLimit {
			t.Errorf("page=%q limit=%q: expected limit %d, got %d", tt.page, tt.limit, tt.wantLimit, spec.Limit)
		}
	}
}

func TestBuildListSpecRejectsBadLimit(t *testing.T) {
	for _, limit := range []string{"0", "-1", "abc", "2.5"} {
		if _, err := BuildListSpec(ListParams{Limit: limit}); err == nil {
			t.Errorf("limit=%q: expected error", limit)
		}
	}
}

func TestBuildListSpecFilters(t *testing.T) {
	spec, err := BuildListSpec(ListParams{FilterByNome: "  escola ", FilterByUf: " sp "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.NomeSubstring != "escola" {
		t.Errorf("expected trimmed nome filter, got %q", spec.NomeSubstring)
	}
	if spec.UF != "SP" {
		t.Errorf("expected uppercased uf filter, got %q", spec.UF)
	}
}
