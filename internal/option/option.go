// Package option models the product option choices a shopper makes, such as bean
// weight or grind size.
package option

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type Kind string

const (
	KindWeight Kind = "WEIGHT"
	KindGrind  Kind = "GRIND"
)

func (k Kind) Valid() bool {
	switch k {
	case KindWeight, KindGrind:
		return true
	}
	return false
}

// Selection maps an option kind to the chosen value. A nil and an empty Selection are
// the same selection.
type Selection map[Kind]string

func (s Selection) Validate() error {
	for k, v := range s {
		if !k.Valid() {
			return fmt.Errorf("unknown option kind=%s", k)
		}
		if v == "" {
			return fmt.Errorf("empty value for option kind=%s", k)
		}
	}
	return nil
}

// Canonical returns the serialized form used to compare selections. encoding/json writes
// map keys in sorted order so equal selections always serialize identically.
func (s Selection) Canonical() []byte {
	if len(s) == 0 {
		return []byte("null")
	}
	b, err := json.Marshal(map[Kind]string(s))
	if err != nil {
		return []byte("null")
	}
	return b
}

func (s Selection) Equal(other Selection) bool {
	return bytes.Equal(s.Canonical(), other.Canonical())
}

// Value stores empty selections as SQL NULL.
func (s Selection) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return s.Canonical(), nil
}

func (s *Selection) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into option.Selection", src)
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*s = nil
		return nil
	}
	m := map[Kind]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("failed unmarshaling option selection with error=%w", err)
	}
	if len(m) == 0 {
		*s = nil
		return nil
	}
	*s = m
	return nil
}
