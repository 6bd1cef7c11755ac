package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/toothbrush/atlassian-rag/internal/apierr"
	"github.com/toothbrush/atlassian-rag/internal/cache"
)

func (api *API) GetPageByID(ctx context.Context, opts GetPageByIDQuery) (*Page, error) {
	ep, err := api.getPageByIDEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get single page endpoint: %w", err)
	}

	key := cache.Key("confluence", "page", strconv.Itoa(opts.ID), opts.BodyFormat)
	body, err := api.requestCached(ctx, ep, key, "page", strconv.Itoa(opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var page Page

	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &page, nil
}

func (api *API) GetPages(ctx context.Context, opts GetPagesQuery) (*MultiPageResponse, error) {
	ep, err := api.getPagesEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get pages endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "pages", "")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var pageList MultiPageResponse

	if err := json.Unmarshal(body, &pageList); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &pageList, nil
}

func (api *API) getSpaces(ctx context.Context, opts SpacesQuery) (*AllSpaces, error) {
	ep, err := api.getSpaceEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get spaces endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "spaces", "")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var allSpaces AllSpaces

	if err := json.Unmarshal(body, &allSpaces); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &allSpaces, nil
}

func (api *API) getFooterComments(ctx context.Context, opts GetFooterCommentsQuery) (*MultiCommentResponse, error) {
	ep, err := api.getFooterCommentsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get footer comments endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "page", strconv.Itoa(opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var commentList MultiCommentResponse

	if err := json.Unmarshal(body, &commentList); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &commentList, nil
}

func (api *API) getAttachments(ctx context.Context, opts GetAttachmentsQuery) (*MultiAttachmentResponse, error) {
	ep, err := api.getAttachmentsEndpoint(opts)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get attachments endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "page", strconv.Itoa(opts.ID))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform request: %w", err)
	}

	var attachmentList MultiAttachmentResponse

	if err := json.Unmarshal(body, &attachmentList); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &attachmentList, nil
}

// CurrentUser return current user information
func (api *API) CurrentUser(ctx context.Context) (*User, error) {
	ep, err := api.getCurrentUserEndpoint()
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't get current user endpoint: %w", err)
	}

	body, err := api.request(ctx, ep, "user", "current")
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse json response: %w", err)
	}

	return &user, nil
}

// requestCached is request with a read-through cache in front.  Page bodies
// keep for half an hour; a hit skips the network round trip entirely.
func (api *API) requestCached(ctx context.Context, url *url.URL, key string, kind, id string) ([]byte, error) {
	if hit, ok := api.Cache.Get(ctx, key); ok {
		return []byte(hit), nil
	}

	body, err := api.request(ctx, url, kind, id)
	if err != nil {
		return nil, err
	}

	api.Cache.Set(ctx, key, string(body), cache.TTLDefault)
	return body, nil
}

// Request implements the basic Request function.  kind and id say what we
// were after, so 404s come back as a useful NotFoundError.
func (api *API) request(ctx context.Context, url *url.URL, kind, id string) ([]byte, error) {
	if err := api.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("confluence: rate limiter wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")

	// if user & token are not set, do not add authorization header
	if api.username != "" && api.token != "" {
		req.SetBasicAuth(api.username, api.token)
	} else if api.token != "" {
		req.Header.Set("Authorization", "Bearer "+api.token)
	}

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't perform http request: %w", err)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't read http response body: %w", err)
	}

	if err := response.Body.Close(); err != nil {
		return nil, fmt.Errorf("confluence: couldn't close response body: %w", err)
	}

	switch response.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusPartialContent, http.StatusNoContent, http.StatusResetContent:
		return body, nil
	}

	return nil, apierr.FromResponse("confluence", response, kind, id)
}
