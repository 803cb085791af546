package request

// BillFilterRequest represents bill list filter parameters. Dates use
// the 2006-01-02 layout.
type BillFilterRequest struct {
	Search    string `form:"search"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
	AllUsers  bool   `form:"all_users"`
}
