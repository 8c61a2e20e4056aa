package api

import (
	_ "embed"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

var (
	openAPIOnce sync.Once
	openAPIDoc  any
	openAPIErr  error
)

// OpenAPIDocument returns the parsed API description.
func OpenAPIDocument() (any, error) {
	openAPIOnce.Do(func() {
		openAPIErr = yaml.Unmarshal(openAPIYAML, &openAPIDoc)
	})
	return openAPIDoc, openAPIErr
}

func handleOpenAPIYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPIYAML)
}

func handleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := OpenAPIDocument()
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "An unexpected error occurred")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
