package leadscout

import "encoding/json"

// Envelope is the uniform wrapper returned by every client operation that
// completes with a response. Success is derived from the HTTP status.
type Envelope[T any] struct {
	Data    T
	Message string
	Success bool
	Status  int
}

// Void is the payload type for operations that return no data.
type Void struct{}

// Page is the server's pagination envelope, passed through with the
// per-item transform applied to each row.
type Page[T any] struct {
	Data        []T  `json:"data"`
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// PageParams select a slice of a paginated collection.
type PageParams struct {
	Page    int
	Limit   int
	Search  string
	Sort    string
	Filters map[string]string
}

func newEnvelope[T any](status int, data T, raw []byte) *Envelope[T] {
	env := &Envelope[T]{
		Data:    data,
		Success: status >= 200 && status < 300,
		Status:  status,
	}
	if obj := decodeObject(raw); obj != nil {
		if msg, ok := obj["message"].(string); ok {
			env.Message = msg
		}
	}
	return env
}

// decodeObject best-effort decodes a JSON object body. Non-object payloads
// yield nil.
func decodeObject(raw []byte) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj
}

// rawMessage guards against empty bodies when a payload is optional.
func rawMessage(raw []byte) json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	return json.RawMessage(raw)
}
