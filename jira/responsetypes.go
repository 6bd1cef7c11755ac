package jira

// SearchResponse is one page of JQL search results.
type SearchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

// ChangelogResponse is one page of an issue's changelog.
type ChangelogResponse struct {
	StartAt    int                `json:"startAt"`
	MaxResults int                `json:"maxResults"`
	Total      int                `json:"total"`
	IsLast     bool               `json:"isLast,omitempty"`
	Values     []ChangelogHistory `json:"values"`
}

// ProjectSearchResponse is one page of the project listing.
type ProjectSearchResponse struct {
	StartAt    int       `json:"startAt"`
	MaxResults int       `json:"maxResults"`
	Total      int       `json:"total"`
	IsLast     bool      `json:"isLast"`
	Values     []Project `json:"values"`
}
