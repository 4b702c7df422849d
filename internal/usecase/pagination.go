package usecase

import "strconv"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// parsePagination normalizes raw page/limit query values. Pagination kicks in
// as soon as either value is supplied; non-numeric or non-positive values
// fall back to the defaults.
func parsePagination(pageStr, limitStr string) (page, limit int, paginated bool) {
	paginated = pageStr != "" || limitStr != ""
	page = atoiPositive(pageStr, defaultPage)
	limit = atoiPositive(limitStr, defaultLimit)
	return page, limit, paginated
}

func atoiPositive(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func totalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}
