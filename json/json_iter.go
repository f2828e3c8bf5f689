package json

import (
	"sync"

	jsoniter "github.com/json-iterator/go"
)

func buildJSONIterAPI(c *jsoniterConfig) jsoniter.API {
	return jsoniter.Config{
		EscapeHTML: c.escapeHTML,
		// Header maps are serialized into span attributes; sorting makes
		// the output comparable across requests.
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		CaseSensitive:          true,
	}.Froze()
}

//nolint:gochecknoglobals
var (
	jsoniterPool   = map[jsoniterConfig]jsoniter.API{}
	jsoniterPoolMu = &sync.Mutex{}
)

// This struct MUST be comparable by value with other structs of the same type,
// and hence, not contain any pointers, maps or slices ("reference types").
type jsoniterConfig struct {
	escapeHTML bool
}

func jsoniterForConfig(c jsoniterConfig) jsoniter.API {
	jsoniterPoolMu.Lock()
	defer jsoniterPoolMu.Unlock()

	// Return cached API if exists for the config
	if api, ok := jsoniterPool[c]; ok {
		return api
	}

	jsoniterPool[c] = buildJSONIterAPI(&c)
	return jsoniterPool[c]
}
