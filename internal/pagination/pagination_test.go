package pagination

import "testing"

func TestDefaults(t *testing.T) {
	p := PageRequest{}
	p.Defaults()
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Errorf("unexpected defaults: %+v", p)
	}

	p = PageRequest{Page: 3, PageSize: 500}
	p.Defaults()
	if p.PageSize != MaxPageSize {
		t.Errorf("expected page size clamped to %d, got %d", MaxPageSize, p.PageSize)
	}
	if p.Offset() != 200 {
		t.Errorf("expected offset 200, got %d", p.Offset())
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[int](nil, PageRequest{Page: 2, PageSize: 10}, 21)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if resp.Data == nil {
		t.Error("nil data should become an empty slice")
	}

	empty := NewPageResponse([]string{}, PageRequest{}, 0)
	if empty.TotalPages != 0 || empty.Page != 1 {
		t.Errorf("unexpected empty response: %+v", empty)
	}
}
