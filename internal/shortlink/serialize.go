package shortlink

import (
	"fmt"
	"time"
)

// resourceType is the JSON:API type member for serialized links.
const resourceType = "urls"

// resourceAttributes is the attribute set the API exposes. The owner is
// deliberately absent: ownership controls access but is never serialized.
type resourceAttributes struct {
	OriginalURL string    `json:"originalUrl"`
	Slug        string    `json:"slug"`
	VisitCount  int64     `json:"visitCount"`
	ShortURL    string    `json:"shortUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// resource is one JSON:API resource object.
type resource struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Attributes resourceAttributes `json:"attributes"`
}

// toResource serializes a link, deriving shortUrl from the configured
// base address.
func toResource(link *ShortLink, baseURL string) resource {
	return resource{
		Type: resourceType,
		ID:   link.ID().String(),
		Attributes: resourceAttributes{
			OriginalURL: link.OriginalURL(),
			Slug:        link.Slug(),
			VisitCount:  link.VisitCount(),
			ShortURL:    fmt.Sprintf("%s/%s", baseURL, link.Slug()),
			CreatedAt:   link.CreatedAt(),
			UpdatedAt:   link.UpdatedAt(),
		},
	}
}

func toResourceList(links []*ShortLink, baseURL string) []resource {
	resources := make([]resource, 0, len(links))
	for _, link := range links {
		resources = append(resources, toResource(link, baseURL))
	}
	return resources
}
