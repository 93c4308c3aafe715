package usecase

type PageResult[T any] struct {
	Total   int64 `json:"total"`
	Records []T   `json:"records"`
}

// page/pageSize の共通チェック
func normalizePage(page, pageSize int) (int, int, error) {
	if page < 1 {
		return 0, 0, badRequest("invalid page")
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, 0, badRequest("invalid page size")
	}
	return page, pageSize, nil
}
