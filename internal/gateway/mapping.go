package gateway

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/straye-as/offer-workflow/internal/domain"
)

var validate = validator.New()

// reservedFields are owned by the session and never taken from a document
var reservedFields = map[string]bool{
	"listingId": true,
}

// MapFields turns extracted key/value pairs into an offer update. Each key is decoded and
// validated on its own so one bad value does not discard the rest; unknown or malformed
// keys are returned in skipped, as are reserved keys such as listingId. Both lists are sorted.
func MapFields(mapped map[string]json.RawMessage) (update domain.OfferUpdate, applied, skipped []string) {
	keys := make([]string, 0, len(mapped))
	for k := range mapped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	accepted := make(map[string]json.RawMessage, len(mapped))
	for _, key := range keys {
		value := bytes.TrimSpace(mapped[key])
		if reservedFields[key] || len(value) == 0 || bytes.Equal(value, []byte("null")) {
			skipped = append(skipped, key)
			continue
		}

		if err := decodeField(key, value); err != nil {
			// Extraction often returns numbers for fields the draft keeps as text
			if !isNumber(value) {
				skipped = append(skipped, key)
				continue
			}
			quoted, _ := json.Marshal(string(value))
			if err := decodeField(key, quoted); err != nil {
				skipped = append(skipped, key)
				continue
			}
			value = quoted
		}

		accepted[key] = value
		applied = append(applied, key)
	}

	if len(accepted) == 0 {
		return domain.OfferUpdate{}, applied, skipped
	}
	data, err := json.Marshal(accepted)
	if err != nil {
		return domain.OfferUpdate{}, nil, keys
	}
	_ = json.Unmarshal(data, &update)
	return update, applied, skipped
}

// decodeField decodes a single key into an empty update and validates it
func decodeField(key string, value json.RawMessage) error {
	doc, err := json.Marshal(map[string]json.RawMessage{key: value})
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	var single domain.OfferUpdate
	if err := dec.Decode(&single); err != nil {
		return err
	}
	return validate.Struct(single)
}

func isNumber(value json.RawMessage) bool {
	var n json.Number
	return json.Unmarshal(value, &n) == nil && value[0] != '"'
}
