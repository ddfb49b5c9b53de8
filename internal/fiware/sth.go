package fiware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sensor_dashboard/internal/models"
)

type sthResponse struct {
	ContextResponses []struct {
		ContextElement struct {
			Attributes []struct {
				Values []sthValue `json:"values"`
			} `json:"attributes"`
		} `json:"contextElement"`
	} `json:"contextResponses"`
}

// sthValue accepts attrValue as a JSON string or a bare number.
type sthValue struct {
	AttrValue json.RawMessage `json:"attrValue"`
	RecvTime  string          `json:"recvTime"`
}

func (v sthValue) record() models.RawRecord {
	raw := bytes.TrimSpace(v.AttrValue)
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}
	return models.RawRecord{AttrValue: s, RecvTime: v.RecvTime}
}

// sthURL builds .../STH/v1/contextEntities/type/{type}/id/{id}/attributes/{attr}?lastN={n}.
func (c *Client) sthURL(kind models.SensorKind, lastN int) string {
	path := fmt.Sprintf("%s/STH/v1/contextEntities/type/%s/id/%s/attributes/%s",
		c.cfg.STHURL,
		url.PathEscape(c.cfg.EntityType),
		url.PathEscape(c.cfg.EntityID),
		url.PathEscape(string(kind)),
	)
	q := url.Values{}
	q.Set("lastN", strconv.Itoa(lastN))
	return path + "?" + q.Encode()
}

// FetchLastN returns the lastN raw values of the attribute for kind, in service order.
// Only attributes[0].values of the first context response is consumed.
func (c *Client) FetchLastN(ctx context.Context, kind models.SensorKind, lastN int) ([]models.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sthURL(kind, lastN), nil)
	if err != nil {
		return nil, fmt.Errorf("build sth request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	c.setTenantHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}
	defer drain(resp)

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var body sthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, kind, err)
	}
	if len(body.ContextResponses) == 0 {
		return nil, fmt.Errorf("%w: %s: no contextResponses", ErrMalformedResponse, kind)
	}
	attrs := body.ContextResponses[0].ContextElement.Attributes
	if len(attrs) == 0 {
		return nil, fmt.Errorf("%w: %s: no attributes", ErrMalformedResponse, kind)
	}
	if attrs[0].Values == nil {
		return nil, fmt.Errorf("%w: %s: no values", ErrMalformedResponse, kind)
	}

	out := make([]models.RawRecord, 0, len(attrs[0].Values))
	for _, v := range attrs[0].Values {
		out = append(out, v.record())
	}
	return out, nil
}
