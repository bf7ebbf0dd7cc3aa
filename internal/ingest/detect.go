// Package ingest implements the property ingestion pipeline: upload
// payloads in one of three upstream scraper shapes are detected,
// normalized into canonical inputs, and upserted into a list with
// source-URL deduplication.
package ingest

// Format identifies the schema shape of an upload payload.
type Format string

const (
	FormatSimplified Format = "simplified"
	FormatIdealista  Format = "idealista"
	FormatFotocasa   Format = "fotocasa"
)

// Detect classifies a decoded JSON payload by structure alone. The order
// matters: Idealista and Fotocasa payloads both use a "viviendas" key, and
// only the shape of that value (bare array vs. object with "todas") plus
// the presence of "ubicacion" tells them apart. Field-level validation is
// left to the matching normalizer; Detect never fails.
func Detect(payload interface{}) Format {
	obj, isObject := payload.(map[string]interface{})
	if !isObject {
		return FormatSimplified
	}

	if _, hasLocation := obj["ubicacion"]; hasLocation {
		if _, isArray := obj["viviendas"].([]interface{}); isArray {
			return FormatFotocasa
		}
	}

	if viviendas, isObject := obj["viviendas"].(map[string]interface{}); isObject {
		if _, isArray := viviendas["todas"].([]interface{}); isArray {
			return FormatIdealista
		}
	}

	return FormatSimplified
}
