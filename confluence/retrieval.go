package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/internal/cache"
)

// Each individual round trip gets this long; the pagination loops
// themselves can run as long as they need to.
const perRequestTimeout = 5 * time.Second

// ListAllSpaces walks the spaces list to the end.  The result is keyed by
// space key, and cached for an hour since the space list barely changes.
func (api *API) ListAllSpaces(ctx context.Context, includePersonal bool) (map[string]Space, error) {
	scope := "global"
	if includePersonal {
		scope = "all"
	}

	cacheKey := cache.Key("confluence", "spaces", scope)
	if hit, ok := api.Cache.Get(ctx, cacheKey); ok {
		spaces := map[string]Space{}
		if err := json.Unmarshal([]byte(hit), &spaces); err == nil {
			return spaces, nil
		}
	}

	spaces := map[string]Space{}

	query := SpacesQuery{
		Status: "current",
		Limit:  250,
	}

	if !includePersonal {
		// Stick to "global" spaces so we don't drown in each user's personal
		// space.
		query.Type = "global"
	}

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		allspaces, err := api.getSpaces(reqCtx, query)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list spaces: %w", err)
		}

		for _, space := range allspaces.Results {
			spaces[space.Key] = space
		}

		if allspaces.Links.Next == "" {
			break
		} else {
			q, err := url.Parse(allspaces.Links.Next)
			if err != nil {
				return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
			}
			query.Cursor = q.Query().Get("cursor")
			if query.Cursor == "" {
				return nil, fmt.Errorf("confluence: expected parameter 'cursor' was empty")
			}
		}
	}

	if marshalled, err := json.Marshal(spaces); err == nil {
		api.Cache.Set(ctx, cacheKey, string(marshalled), cache.TTLSpaces)
	}

	return spaces, nil
}

// GetSpaceByKey resolves one space key to its Space, or a NotFoundError if
// the key doesn't exist.
func (api *API) GetSpaceByKey(ctx context.Context, key string) (*Space, error) {
	reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
	defer cancel()

	result, err := api.getSpaces(reqCtx, SpacesQuery{
		Keys:  []string{key},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't look up space %q: %w", key, err)
	}

	if len(result.Results) == 0 {
		return nil, &apierr.NotFoundError{Service: "confluence", Kind: "space", ID: key}
	}

	space := result.Results[0]
	return &space, nil
}

// ListPagesInSpace walks every page of a space, in storage format (or
// whatever bodyFormat says), with the space key stamped onto each page.
func (api *API) ListPagesInSpace(ctx context.Context, space Space, bodyFormat string, includeArchived bool) ([]Page, error) {
	spaceID, err := strconv.Atoi(space.ID)
	if err != nil {
		return nil, fmt.Errorf("confluence: space ID %q isn't numeric: %w", space.ID, err)
	}

	status := []string{"current"}
	if includeArchived {
		status = append(status, "archived")
	}

	query := GetPagesQuery{
		SpaceID:    []int{spaceID},
		Status:     status,
		BodyFormat: bodyFormat,
		Sort:       "id",
		Limit:      250,
	}

	var pages []Page

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		pageList, err := api.GetPages(reqCtx, query)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list pages in space %s: %w", space.Key, err)
		}

		for _, page := range pageList.Results {
			page.SpaceKey = space.Key
			pages = append(pages, page)
		}

		if pageList.Links.Next == "" {
			break
		} else {
			q, err := url.Parse(pageList.Links.Next)
			if err != nil {
				return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
			}
			query.Cursor = q.Query().Get("cursor")
			if query.Cursor == "" {
				return nil, fmt.Errorf("confluence: expected parameter 'cursor' was empty")
			}
		}
	}

	return pages, nil
}

// GetFooterComments fetches all the comments below a page.
func (api *API) GetFooterComments(ctx context.Context, pageID int) ([]FooterComment, error) {
	query := GetFooterCommentsQuery{
		ID:         pageID,
		BodyFormat: "storage",
		Limit:      100,
	}

	var comments []FooterComment

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		commentList, err := api.getFooterComments(reqCtx, query)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list comments on page %d: %w", pageID, err)
		}

		comments = append(comments, commentList.Results...)

		if commentList.Links.Next == "" {
			break
		} else {
			q, err := url.Parse(commentList.Links.Next)
			if err != nil {
				return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
			}
			query.Cursor = q.Query().Get("cursor")
			if query.Cursor == "" {
				return nil, fmt.Errorf("confluence: expected parameter 'cursor' was empty")
			}
		}
	}

	return comments, nil
}

// GetAttachments fetches the attachment listing for a page.  Metadata only,
// we never pull the file contents down.
func (api *API) GetAttachments(ctx context.Context, pageID int) ([]Attachment, error) {
	query := GetAttachmentsQuery{
		ID:    pageID,
		Limit: 100,
	}

	var attachments []Attachment

	for {
		reqCtx, cancel := context.WithTimeout(ctx, perRequestTimeout)
		attachmentList, err := api.getAttachments(reqCtx, query)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("confluence: couldn't list attachments on page %d: %w", pageID, err)
		}

		attachments = append(attachments, attachmentList.Results...)

		if attachmentList.Links.Next == "" {
			break
		} else {
			q, err := url.Parse(attachmentList.Links.Next)
			if err != nil {
				return nil, fmt.Errorf("confluence: couldn't parse _links.next: %w", err)
			}
			query.Cursor = q.Query().Get("cursor")
			if query.Cursor == "" {
				return nil, fmt.Errorf("confluence: expected parameter 'cursor' was empty")
			}
		}
	}

	return attachments, nil
}
