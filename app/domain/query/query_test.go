package query

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
)

func newQueryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestGetListQueryFromQuery(t *testing.T) {
	q, err := GetListQueryFromQuery(newQueryContext("page=3&limit=500&search=+model+3+&brand=Tesla&order=asc"), "brand")
	if err != nil {
		t.Fatal(err)
	}
	want := &ListQuery{
		Pagination: Pagination{Page: 3, Limit: MaxLimit, Order: "asc"},
		Search:     "model 3",
		Filter:     "Tesla",
	}
	if diff := cmp.Diff(want, q); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGetPaginationFromQueryRejectsBadInput(t *testing.T) {
	for _, raw := range []string{"page=0", "limit=-1", "page=abc", "order=sideways"} {
		if _, err := GetPaginationFromQuery(newQueryContext(raw)); err == nil {
			t.Errorf("%q: expected error", raw)
		}
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage[string](nil, 21, Pagination{Page: 2, Limit: 10})
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("Items = %#v, want empty slice", p.Items)
	}
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if got := (Pagination{Page: 3, Limit: 10}).Offset(); got != 20 {
		t.Errorf("Offset = %d, want 20", got)
	}
}
