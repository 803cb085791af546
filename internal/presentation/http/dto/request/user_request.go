package request

// SetRoleRequest replaces the role of a user
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin cashier"`
}

// UserFilterRequest represents user list filter parameters
type UserFilterRequest struct {
	Search  string `form:"search"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
