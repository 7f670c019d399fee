package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var keyPattern = regexp.MustCompile(`^([a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12})\.([0-9]{1,3})$`)

// Key identifies one restaurant of a business: "<business uuid>.<index>".
type Key struct {
	Raw      string    `json:"key"`
	Business uuid.UUID `json:"business"`
	Index    int       `json:"index"`
}

// ParseKey validates a restaurant key.
func ParseKey(raw string) (Key, error) {
	raw = strings.TrimSpace(raw)
	match := keyPattern.FindStringSubmatch(raw)
	if match == nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, raw)
	}
	business, err := uuid.Parse(match[1])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, raw, err)
	}
	index, err := strconv.Atoi(match[2])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, raw, err)
	}
	return Key{Raw: raw, Business: business, Index: index}, nil
}

func (k Key) String() string {
	return k.Raw
}
