package pagination

import "testing"

func TestNormalize(t *testing.T) {
	p := Params{Page: 0, Limit: 0}.Normalize()
	if p.Page != 1 {
		t.Fatalf("expected page 1, got %d", p.Page)
	}
	if p.Limit != DefaultLimit {
		t.Fatalf("expected default limit, got %d", p.Limit)
	}

	p = Params{Page: 3, Limit: 500}.Normalize()
	if p.Limit != MaxLimit {
		t.Fatalf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Offset(); got != 0 {
		t.Fatalf("expected offset 0, got %d", got)
	}
	if got := (Params{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Fatalf("expected offset 20, got %d", got)
	}
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Page: 2, Limit: 10}, 25)
	if meta.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", meta.Pages)
	}
	if meta.Total != 25 {
		t.Fatalf("expected total 25, got %d", meta.Total)
	}
	if meta.Page != 2 || meta.Limit != 10 {
		t.Fatalf("unexpected meta %+v", meta)
	}

	empty := BuildMeta(Params{Page: 1, Limit: 10}, 0)
	if empty.Pages != 0 {
		t.Fatalf("expected 0 pages for empty set, got %d", empty.Pages)
	}
}
