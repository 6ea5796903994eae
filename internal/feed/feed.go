// Package feed loads the configured RSS sources and fetches their items.
package feed

import (
	"os"
	"strings"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/news"
)

// Source describes one RSS feed in configs/sources.yaml.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Language string `yaml:"language"`
	Category string `yaml:"category"`
}

type sourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// maxItemsPerSource caps how many items one feed can contribute per run so a
// busy wire service cannot crowd out the others.
const maxItemsPerSource = 15

// LoadSources reads the source list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg sourcesConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Sources, nil
}

// FetchAll downloads and parses every source. A failing source is logged and
// skipped; one dead feed never aborts the run.
func FetchAll(sources []Source) []news.Article {
	parser := gofeed.NewParser()
	var articles []news.Article
	ok := 0

	for _, src := range sources {
		feed, err := parser.ParseURL(src.URL)
		if err != nil {
			logger.Warn("feed fetch failed", "source", src.Name, "err", err)
			continue
		}

		items := feed.Items
		if len(items) > maxItemsPerSource {
			items = items[:maxItemsPerSource]
		}
		for _, item := range items {
			articles = append(articles, toArticle(item, src))
		}
		ok++
		logger.Info("feed loaded", "source", src.Name, "items", len(items))
	}

	logger.Info("feeds processed", "ok", ok, "total", len(sources))
	return articles
}

func toArticle(item *gofeed.Item, src Source) news.Article {
	art := news.Article{
		Title:            strings.TrimSpace(item.Title),
		Description:      strings.TrimSpace(firstNonEmpty(item.Description, item.Content)),
		URL:              item.Link,
		Source:           src.Name,
		SourceType:       src.Category,
		OriginalLanguage: src.Language,
		ImageURL:         itemImage(item),
	}
	if item.PublishedParsed != nil {
		art.PubDate = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		art.PubDate = *item.UpdatedParsed
	}
	return art
}

// itemImage pulls a thumbnail from the usual RSS places: the channel image,
// enclosures, then media:content / media:thumbnail extensions.
func itemImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if media, ok := item.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" {
					return url
				}
			}
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
