package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"courtcast/internal/retry"
)

// apiPageSize is the YouTube Data API hard cap on playlistItems.list results
// per call. Smaller requests are allowed; larger ones are clamped server-side.
const apiPageSize = 50

// APILister implements UploadLister using YouTube Data API v3. It reads the
// channel's uploads playlist, paging as needed.
type APILister struct {
	service    *youtube.Service
	playlistID string

	// RetryConfig holds retry behavior configuration.
	RetryConfig retry.Config
}

// NewAPILister creates a Data API-backed lister for the given uploads
// playlist. Extra client options are accepted so tests can redirect the
// service at a local endpoint.
func NewAPILister(ctx context.Context, apiKey, playlistID string, opts ...option.ClientOption) (*APILister, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}
	if playlistID == "" {
		return nil, fmt.Errorf("youtube: playlist id required")
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &APILister{
		service:     service,
		playlistID:  playlistID,
		RetryConfig: retry.DefaultConfig(),
	}, nil
}

// ListUploads fetches up to maxResults items from the uploads playlist,
// newest first, following page tokens as needed.
func (a *APILister) ListUploads(ctx context.Context, maxResults int64) ([]VideoInfo, error) {
	if maxResults <= 0 {
		maxResults = apiPageSize
	}

	var videos []VideoInfo
	pageToken := ""

	for int64(len(videos)) < maxResults {
		remaining := maxResults - int64(len(videos))
		if remaining > apiPageSize {
			remaining = apiPageSize
		}

		var resp *youtube.PlaylistItemListResponse
		err := retry.Do(ctx, a.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
			call := a.service.PlaylistItems.List([]string{"snippet"}).
				PlaylistId(a.playlistID).
				MaxResults(remaining).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}

			var callErr error
			resp, callErr = call.Do()
			if callErr != nil {
				return &ListerError{Playlist: a.playlistID, Err: classifyAPIError(callErr)}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			if item.Snippet == nil || item.Snippet.ResourceId == nil {
				continue
			}
			published, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)
			videos = append(videos, VideoInfo{
				ID:          item.Snippet.ResourceId.VideoId,
				Title:       item.Snippet.Title,
				PublishedAt: published,
				Description: truncateDescription(item.Snippet.Description),
			})
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}

	if int64(len(videos)) > maxResults {
		videos = videos[:maxResults]
	}
	return videos, nil
}

// classifyAPIError maps googleapi errors onto package sentinels.
func classifyAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Code {
	case 404:
		return fmt.Errorf("%w: %s", ErrPlaylistNotFound, apiErr.Message)
	case 403:
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Message)
	case 429:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	}
	return err
}

// apiErrorClassifier treats not-found and quota errors as permanent.
// Rate limiting and transient transport failures are retried.
func apiErrorClassifier(err error) bool {
	if errors.Is(err, ErrPlaylistNotFound) || errors.Is(err, ErrQuotaExceeded) {
		return false
	}
	return retry.IsRetryable(err)
}
