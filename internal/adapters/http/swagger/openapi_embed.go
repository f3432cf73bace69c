package swagger

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// OpenAPI is the OpenAPI document of the territory API.
//
//go:embed openapi.yaml
var OpenAPI []byte

// document is OpenAPI in both served encodings plus its entity tag.
type document struct {
	yaml []byte
	json []byte
	etag string
}

// compiled converts the embedded document once, on first request.
var compiled = sync.OnceValues(func() (*document, error) { //nolint:gochecknoglobals // read-only after first use
	return compile(OpenAPI)
})

func compile(src []byte) (*document, error) {
	var tree any
	if err := yaml.Unmarshal(src, &tree); err != nil {
		return nil, fmt.Errorf("openapi: parse yaml: %w", err)
	}
	out, err := json.Marshal(jsonCompatible(tree))
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	return &document{
		yaml: src,
		json: out,
		etag: strconv.Quote(strconv.FormatUint(xxh3.Hash(src), 16)),
	}, nil
}

// jsonCompatible rewrites non-string mapping keys, which encoding/json rejects.
func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonCompatible(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonCompatible(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = jsonCompatible(e)
		}
		return t
	default:
		return v
	}
}
