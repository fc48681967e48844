package stringhash

import "encoding/json"

var (
	jsonMarshal   func(v any) ([]byte, error)
	jsonUnmarshal func(data []byte, v any) error
)

// SetDefaultJSONMarshal sets the default JSON serialization and deserialization functions.
// If not set, the standard library is used by default.
func SetDefaultJSONMarshal(marshal func(v any) ([]byte, error), unmarshal func(data []byte, v any) error) {
	jsonMarshal, jsonUnmarshal = marshal, unmarshal
}

func marshalMap(a map[string]string) ([]byte, error) {
	if jsonMarshal != nil {
		return jsonMarshal(a)
	}
	return json.Marshal(a)
}

func unmarshalMap(data []byte) (map[string]string, error) {
	var a map[string]string
	if jsonUnmarshal != nil {
		if err := jsonUnmarshal(data, &a); err != nil {
			return nil, err
		}
	} else {
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// MarshalJSON encodes the table as a JSON object of strings.
func (t *Table) MarshalJSON() ([]byte, error) {
	return marshalMap(t.ToMap())
}

// UnmarshalJSON sets every pair of a JSON object of strings. The table
// must already have been created with New; existing keys not present in
// data are kept.
func (t *Table) UnmarshalJSON(data []byte) error {
	t.checkLive()
	a, err := unmarshalMap(data)
	if err != nil {
		return err
	}
	for k, v := range a {
		t.Set(k, v)
	}
	return nil
}

// MarshalJSON encodes the table as a JSON object of strings.
func (t *ConcurrentTable) MarshalJSON() ([]byte, error) {
	return marshalMap(t.ToMap())
}

// UnmarshalJSON sets every pair of a JSON object of strings into a table
// created with NewConcurrent.
func (t *ConcurrentTable) UnmarshalJSON(data []byte) error {
	t.checkLive()
	a, err := unmarshalMap(data)
	if err != nil {
		return err
	}
	for k, v := range a {
		t.Set(k, v)
	}
	return nil
}
