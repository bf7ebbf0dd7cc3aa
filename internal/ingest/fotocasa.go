package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/lmoral/captaleads/internal/property"
)

// fotocasaItem mirrors the Fotocasa scraper's per-listing fields. Unlike
// Idealista, the seller's phone number is scraped directly.
type fotocasaItem struct {
	Precio       string  `json:"precio"`
	URL          string  `json:"url"`
	Telefono     *string `json:"telefono"`
	Metros       *string `json:"metros"`
	Habitaciones *string `json:"habitaciones"`
	Propietario  *string `json:"propietario"`
}

type fotocasaPayload struct {
	Ubicacion string            `json:"ubicacion"`
	Viviendas []json.RawMessage `json:"viviendas"`
}

// NormalizeFotocasa maps a Fotocasa payload (shared `ubicacion` plus a
// bare `viviendas` array) to canonical inputs. The returned location is
// used as both display name and location when resolving the target list.
func NormalizeFotocasa(payload []byte) (string, []property.Input, []string, error) {
	var decoded fotocasaPayload
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", nil, nil, fmt.Errorf("decoding fotocasa payload: %w", err)
	}

	var inputs []property.Input
	var errs []string

	for i, raw := range decoded.Viviendas {
		var item fotocasaItem
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
			Phone:     item.Telefono,
			OwnerName: item.Propietario,
			SourceURL: &url,
			RawJSON:   raw,
		})
	}

	return decoded.Ubicacion, inputs, errs, nil
}
