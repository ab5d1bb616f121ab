package adapter

import (
	"net/http"
	"sort"

	"azure-functions-adapter/pkg/azure"
)

// CreateHeaders converts platform headers into a standard header collection.
// Entries with an empty value are dropped.
func CreateHeaders(in azure.InboundHeaders) http.Header {
	headers := make(http.Header, len(in))

	names := make([]string, 0, len(in))
	for name := range in {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if value := in[name]; value != "" {
			headers.Add(name, value)
		}
	}

	return headers
}
