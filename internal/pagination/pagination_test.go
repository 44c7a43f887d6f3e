package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate_CeilingPages(t *testing.T) {
	cases := []struct {
		name  string
		total int
		page  int
		limit int
		pages int
	}{
		{"ровное деление", 100, 1, 20, 5},
		{"неполная последняя страница", 101, 1, 20, 6},
		{"одна запись", 1, 1, 20, 1},
		{"меньше лимита", 7, 2, 10, 1},
		{"limit 1", 3, 1, 1, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Paginate(tc.total, tc.page, tc.limit)
			assert.Equal(t, tc.pages, p.Pages)
			assert.Equal(t, tc.total, p.Total)
		})
	}
}

func TestPaginate_EmptyTotal(t *testing.T) {
	p := Paginate(0, 1, 20)
	assert.Equal(t, 0, p.Pages)
	assert.Equal(t, 0, p.Total)
	assert.Equal(t, 1, p.Page)
}

func TestNormalize_Clamping(t *testing.T) {
	page, limit := Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultLimit, limit)

	page, limit = Normalize(-3, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxLimit, limit)

	page, limit = Normalize(4, 50)
	assert.Equal(t, 4, page)
	assert.Equal(t, 50, limit)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 20))
	assert.Equal(t, 20, Offset(2, 20))
	assert.Equal(t, 90, Offset(10, 10))
	// Невалидная страница нормализуется к первой.
	assert.Equal(t, 0, Offset(0, 20))
}
