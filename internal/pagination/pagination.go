package pagination

// Ограничения постраничного вывода, единые для всех списочных endpoint'ов.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination описывает блок pagination в ответе списочного endpoint'а.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Normalize приводит page и limit к допустимым значениям:
// page >= 1, limit в диапазоне [1, MaxLimit], по умолчанию DefaultLimit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Paginate вычисляет блок pagination: pages = ceil(total/limit).
// При total = 0 возвращает pages = 0, это не ошибка.
func Paginate(total, page, limit int) Pagination {
	page, limit = Normalize(page, limit)
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}

// Offset возвращает смещение для SQL запроса: (page-1)*limit.
func Offset(page, limit int) int {
	page, limit = Normalize(page, limit)
	return (page - 1) * limit
}
