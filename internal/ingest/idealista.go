package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/lmoral/captaleads/internal/property"
)

// idealistaItem mirrors the Idealista scraper's per-listing fields.
// Everything arrives as locale-formatted strings.
type idealistaItem struct {
	Precio        string  `json:"precio"`
	Metros        *string `json:"metros"`
	Habitaciones  *string `json:"habitaciones"`
	URL           string  `json:"url"`
	Anunciante    *string `json:"anunciante"`
	Titulo        *string `json:"titulo"`
	Ubicacion     *string `json:"ubicacion"`
	Descripcion   *string `json:"descripcion"`
	FechaScraping *string `json:"fecha_scraping"`
}

type idealistaPayload struct {
	Viviendas struct {
		Todas []json.RawMessage `json:"todas"`
	} `json:"viviendas"`
}

// NormalizeIdealista maps an Idealista payload (`viviendas.todas`) to
// canonical inputs. The original item JSON is kept verbatim as the raw
// snapshot. A missing price or URL is a per-item error; missing area or
// bedroom strings simply yield no value.
func NormalizeIdealista(payload []byte) ([]property.Input, []string, error) {
	var decoded idealistaPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decoding idealista payload: %w", err)
	}

	var inputs []property.Input
	var errs []string

	for i, raw := range decoded.Viviendas.Todas {
		var item idealistaItem
		if err := json.Unmarshal(raw, &item); err != nil {
			errs = append(errs, fmt.Sprintf("item %d: decoding: %v", i+1, err))
			continue
		}

		if item.URL == "" {
			errs = append(errs, fmt.Sprintf("item %d: missing source URL", i+1))
			continue
		}
		if item.Precio == "" {
			errs = append(errs, fmt.Sprintf("item %d (%s): missing price", i+1, item.URL))
			continue
		}

		price, err := parsePrice(item.Precio)
		if err != nil {
			errs = append(errs, fmt.Sprintf("item %d (%s): %v", i+1, item.URL, err))
			continue
		}

		url := item.URL
		inputs = append(inputs, property.Input{
			Price:     price,
			Area:      parseArea(item.Metros),
			Bedrooms:  parseBedrooms(item.Habitaciones),
			OwnerName: item.Anunciante,
			SourceURL: &url,
			RawJSON:   raw,
		})
	}

	return inputs, errs, nil
}
