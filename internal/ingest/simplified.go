package ingest

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lmoral/captaleads/internal/property"
)

// simplifiedItem is the canonical upload wire shape: numbers are already
// numbers and only the price is mandatory.
type simplifiedItem struct {
	Price      *float64               `json:"price"`
	M2         *float64               `json:"m2"`
	Bedrooms   *float64               `json:"bedrooms"`
	Phone      *string                `json:"phone"`
	OwnerName  *string                `json:"ownerName"`
	SourceURL  *string                `json:"sourceUrl"`
	RawPayload map[string]interface{} `json:"rawPayload"`
}

type simplifiedPayload struct {
	Properties []simplifiedItem `json:"properties"`
}

// NormalizeSimplified maps a simplified payload (either `{"properties":
// [...]}` or a bare item array) to canonical inputs. Malformed items are
// reported as error strings and skipped; they never fail the batch.
func NormalizeSimplified(payload []byte) ([]property.Input, []string, error) {
	var items []simplifiedItem

	var wrapper simplifiedPayload
	if err := json.Unmarshal(payload, &wrapper); err == nil && wrapper.Properties != nil {
		items = wrapper.Properties
	} else if err := json.Unmarshal(payload, &items); err != nil {
		return nil, nil, fmt.Errorf("decoding simplified payload: %w", err)
	}

	var inputs []property.Input
	var errs []string

	for i, item := range items {
		if item.Price == nil {
			errs = append(errs, fmt.Sprintf("item %d: missing price", i+1))
			continue
		}
		if *item.Price < 0 {
			errs = append(errs, fmt.Sprintf("item %d: negative price %v", i+1, *item.Price))
			continue
		}

		in := property.Input{
			Price:     int64(math.Round(*item.Price)),
			Area:      roundPtr(item.M2),
			Bedrooms:  roundPtr(item.Bedrooms),
			Phone:     item.Phone,
			OwnerName: item.OwnerName,
			SourceURL: item.SourceURL,
		}

		if item.RawPayload != nil {
			raw, err := json.Marshal(item.RawPayload)
			if err != nil {
				errs = append(errs, fmt.Sprintf("item %d: encoding raw payload: %v", i+1, err))
				continue
			}
			in.RawJSON = raw
		}

		inputs = append(inputs, in)
	}

	return inputs, errs, nil
}

func roundPtr(f *float64) *int64 {
	if f == nil {
		return nil
	}
	n := int64(math.Round(*f))
	return &n
}
