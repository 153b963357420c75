package entsoe

import (
	"os"

	"dayahead-prices/internal/model"
)

// LoadDocumentXML reads a saved publication from disk and decodes it.
// Used for offline analysis of documents captured with curl, and by the demo.
func LoadDocumentXML(path string) (*model.MarketDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(raw)
}
