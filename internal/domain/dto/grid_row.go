package dto

import (
	"strconv"

	"github.com/bytedance/sonic"
)

// GridEnvelope is the JSON envelope returned by the PIHPS grid endpoint.
type GridEnvelope struct {
	Data []GridRow `json:"data"`
}

// GridRow is one raw row of the commodity grid: a display name, a level
// discriminator (0 = national aggregate, 1 = province, >1 = city/market)
// and an open-ended set of date-keyed price cells. The date columns are
// dynamic, so the row unmarshals itself from a generic object.
type GridRow struct {
	Name  string
	Level int
	Cells map[string]string
}

func (r *GridRow) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Cells = make(map[string]string, len(raw))
	for key, val := range raw {
		switch key {
		case "name":
			if s, ok := val.(string); ok {
				r.Name = s
			}
		case "level":
			switch v := val.(type) {
			case float64:
				r.Level = int(v)
			case string:
				n, err := strconv.Atoi(v)
				if err == nil {
					r.Level = n
				}
			}
		default:
			switch v := val.(type) {
			case string:
				r.Cells[key] = v
			case float64:
				r.Cells[key] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	}

	return nil
}

func ParseGridEnvelope(data []byte) (*GridEnvelope, error) {
	var envelope GridEnvelope
	if err := sonic.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}
