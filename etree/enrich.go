package etree

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/readerview/readerview"
)

// MetadataFunc fetches page metadata for an item URL. Implementations
// return ("", nil) or an error when no usable image is found; errors are
// swallowed so one bad page never fails the whole enrichment pass.
type MetadataFunc func(ctx context.Context, url string) (imageURL string, err error)

// EnrichStats summarizes an enrichment pass for diagnostics.
type EnrichStats struct {
	URLsQueued            int
	SkippedWithThumbnails int
	ItemsUpdated          int
}

// EnrichItems fills missing item thumbnails by fetching page metadata
// for items that lack one. Item URLs are deduplicated so a single fetch
// can update several items, and fetches run concurrently up to limit.
// Only empty fields are written; feed-supplied images are never
// overwritten.
func EnrichItems(ctx context.Context, feed *readerview.Feed, limit int, fetch MetadataFunc) (EnrichStats, error) {
	var stats EnrichStats
	if feed == nil || fetch == nil {
		return stats, nil
	}
	if limit < 1 {
		limit = 1
	}

	urlToItems := make(map[string][]*readerview.FeedItem)
	for _, item := range feed.Items {
		if item.ThumbnailURL != "" {
			stats.SkippedWithThumbnails++
			continue
		}
		if item.URL == "" {
			continue
		}
		urlToItems[item.URL] = append(urlToItems[item.URL], item)
	}
	stats.URLsQueued = len(urlToItems)

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for url, items := range urlToItems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			imageURL, err := fetch(ctx, url)
			if err != nil || imageURL == "" {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			for _, item := range items {
				if item.ThumbnailURL == "" {
					item.ThumbnailURL = imageURL
					stats.ItemsUpdated++
				}
				if item.ImageURL == "" {
					item.ImageURL = imageURL
				}
			}
			return nil
		})
	}

	err := g.Wait()
	return stats, err
}
