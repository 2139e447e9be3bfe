package query

import "strconv"

// DefaultPerPage bounds result sets when the caller supplies no usable page
// size. It also keeps the total-page math away from division by zero.
const DefaultPerPage = 100

// Page is a validated pagination request. Number is always >= 1 and Size is
// always >= 1.
type Page struct {
	Number int
	Size   int
}

// ParsePage normalizes raw page/per_page input. Non-numeric or non-positive
// page falls back to 1; non-numeric or non-positive per_page falls back to
// DefaultPerPage. Malformed input is never an error.
func ParsePage(pageRaw, perPageRaw string) Page {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(perPageRaw)
	if err != nil || perPage < 1 {
		perPage = DefaultPerPage
	}
	return Page{Number: page, Size: perPage}
}

// Normalize applies the same fallbacks to already-numeric input.
func Normalize(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Page{Number: page, Size: perPage}
}

// Offset is the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// TotalPages returns ceil(total / Size). A total of 0 yields 0 pages.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}
