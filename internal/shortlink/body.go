package shortlink

import "encoding/json"

// linkPayload is the normalized create/update request body. Clients send
// either a JSON:API document ({"data":{"attributes":{...}}}) or the flat
// attributes object; both shapes collapse to this struct at the transport
// boundary so the Service only ever sees normalized fields.
type linkPayload struct {
	OriginalURL string
	Slug        string
}

type payloadAttributes struct {
	OriginalURL string `json:"originalUrl"`
	Slug        string `json:"slug"`
}

func (p *linkPayload) UnmarshalJSON(data []byte) error {
	var wrapped struct {
		Data *struct {
			Attributes payloadAttributes `json:"attributes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Data != nil {
		p.OriginalURL = wrapped.Data.Attributes.OriginalURL
		p.Slug = wrapped.Data.Attributes.Slug
		return nil
	}

	var flat payloadAttributes
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	p.OriginalURL = flat.OriginalURL
	p.Slug = flat.Slug
	return nil
}
