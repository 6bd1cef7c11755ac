package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v1/api-group-users/#api-wiki-rest-api-user-get
type User struct {
	Type        string `json:"type"`
	Username    string `json:"username"`
	UserKey     string `json:"userKey"`
	AccountID   string `json:"accountId"`
	AccountType string `json:"accountType"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-space/#api-spaces-get.
type Space struct {
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`
}

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-get. I'm
// embellishing that with the SpaceKey field for convenience, because the v2
// API only hands back a numeric spaceId and everything downstream wants the key.
type Page struct {
	ID          string `json:"id,omitempty"`
	Status      string `json:"status,omitempty"` // current, archived, deleted, trashed
	Title       string `json:"title,omitempty"`
	SpaceID     string `json:"spaceId,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	ParentType  string `json:"parentType,omitempty"`
	Position    int    `json:"position,omitempty"`
	AuthorID    string `json:"authorId,omitempty"`
	OwnerID     string `json:"ownerId,omitempty"`
	LastOwnerID string `json:"lastOwnerId,omitempty"`

	CreatedAt string   `json:"createdAt"`
	Version   *Version `json:"version,omitempty"`

	Body Body `json:"body"`

	Links struct {
		WebUI  string `json:"webui"`
		EditUI string `json:"editui"`
		TinyUI string `json:"tinyui"`
	} `json:"_links"`

	SpaceKey string
}

// FooterComment is a comment below a page body.
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-comment/#api-pages-id-footer-comments-get
type FooterComment struct {
	ID      string   `json:"id,omitempty"`
	Status  string   `json:"status,omitempty"`
	Title   string   `json:"title,omitempty"`
	PageID  string   `json:"pageId,omitempty"`
	Version *Version `json:"version,omitempty"`
	Body    Body     `json:"body"`
}

// Attachment is a file hanging off a page.  We only record what it is and
// where to get it; the actual bytes never come down.
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-attachment/#api-pages-id-attachments-get
type Attachment struct {
	ID           string   `json:"id,omitempty"`
	Status       string   `json:"status,omitempty"`
	Title        string   `json:"title,omitempty"`
	PageID       string   `json:"pageId,omitempty"`
	MediaType    string   `json:"mediaType,omitempty"`
	FileSize     int64    `json:"fileSize,omitempty"`
	WebUILink    string   `json:"webuiLink,omitempty"`
	DownloadLink string   `json:"downloadLink,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	Version      *Version `json:"version,omitempty"`
}

// Version defines the content version number
// the version number is used for updating content
type Version struct {
	CreatedAt string `json:"createdAt"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
	AuthorID  string `json:"authorId,omitempty"`
}

// Body holds the storage information
type Body struct {
	Storage        Storage  `json:"storage"`
	AtlasDocFormat *Storage `json:"atlas_doc_format,omitempty"`
	View           *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}
