package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

const dateLayout = "2006-01-02"

// parseBody decodes a JSON request body into v.
func parseBody(c *fiber.Ctx, v any) error {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// patchDecoder reads a partial-update body. Keys that are absent stay
// unset; an explicit null clears a nullable field.
type patchDecoder struct {
	raw  map[string]json.RawMessage
	used map[string]bool
	err  error
}

func newPatchDecoder(c *fiber.Ctx) (*patchDecoder, error) {
	var raw map[string]json.RawMessage
	if err := parseBody(c, &raw); err != nil {
		return nil, err
	}
	return &patchDecoder{raw: raw, used: map[string]bool{}}, nil
}

func patchField[T any](d *patchDecoder, key string) domain.Optional[T] {
	d.used[key] = true
	raw, ok := d.raw[key]
	if !ok || d.err != nil {
		return domain.Optional[T]{}
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		d.err = fmt.Errorf("%w: field %q: %v", domain.ErrInvalidInput, key, err)
		return domain.Optional[T]{}
	}
	return domain.Some(v)
}

// patchParsed decodes a string field and converts it with parse.
func patchParsed[T any](d *patchDecoder, key string, parse func(string) (T, error)) domain.Optional[T] {
	s := patchField[string](d, key)
	if !s.Present || d.err != nil {
		return domain.Optional[T]{}
	}
	v, err := parse(s.Value)
	if err != nil {
		d.err = err
		return domain.Optional[T]{}
	}
	return domain.Some(v)
}

// patchNullableParsed is patchParsed for a nullable field.
func patchNullableParsed[T any](d *patchDecoder, key string, parse func(string) (T, error)) domain.Optional[*T] {
	s := patchField[*string](d, key)
	if !s.Present || d.err != nil {
		return domain.Optional[*T]{}
	}
	if s.Value == nil {
		return domain.Null[T]()
	}
	v, err := parse(*s.Value)
	if err != nil {
		d.err = err
		return domain.Optional[*T]{}
	}
	return domain.Some(&v)
}

// finish reports the first decode error or any unrecognized key.
func (d *patchDecoder) finish() error {
	if d.err != nil {
		return d.err
	}
	var unknown []string
	for k := range d.raw {
		if !d.used[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("%w: unknown fields %s", domain.ErrInvalidInput, strings.Join(unknown, ", "))
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q must be RFC 3339", domain.ErrInvalidInput, s)
	}
	return t.UTC(), nil
}

// queryRef reads a reference filter: absent leaves it unconstrained and
// "null" or "none" selects rows without the reference.
func queryRef(c *fiber.Ctx, key string) domain.Optional[*string] {
	v := c.Query(key)
	switch {
	case v == "":
		return domain.Optional[*string]{}
	case v == "null" || v == "none":
		return domain.Null[string]()
	default:
		return domain.Some(&v)
	}
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidInput, key)
	}
	return &b, nil
}

func queryTime(c *fiber.Ctx, key string, parse func(string) (time.Time, error)) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := parse(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
