package models

// ListQuery is the narrow read shape accepted by the admin data proxy:
// optional ordering and a single equality filter.
type ListQuery struct {
	Select string      `json:"select,omitempty"`
	Order  *QueryOrder `json:"order,omitempty"`
	Eq     *QueryEq    `json:"eq,omitempty"`
}

type QueryOrder struct {
	Column    string `json:"column"`
	Ascending *bool  `json:"ascending,omitempty"`
}

type QueryEq struct {
	Column string `json:"column"`
	Value  any    `json:"value"`
}
