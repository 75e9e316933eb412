package constants

const (
	DEFAULT_PAGE       = 1
	DEFAULT_PAGE_LIMIT = 20
)
