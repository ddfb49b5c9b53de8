package fiware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"sensor_dashboard/internal/models"
)

// commandAttr is the NGSI v2 attribute body for a fire-once command.
type commandAttr struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *Client) orionAttrsURL() string {
	return fmt.Sprintf("%s/v2/entities/%s/attrs", c.cfg.OrionURL, url.PathEscape(c.cfg.EntityID))
}

// commandPayload builds {"<cmd>": {"type": "command", "value": ""}}.
func commandPayload(cmd models.Command) ([]byte, error) {
	return json.Marshal(map[string]commandAttr{
		string(cmd): {Type: "command", Value: ""},
	})
}

// SendCommand PATCHes the command attribute on the entity. Any non-2xx is an error.
func (c *Client) SendCommand(ctx context.Context, cmd models.Command) error {
	payload, err := commandPayload(cmd)
	if err != nil {
		return fmt.Errorf("encode command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.orionAttrsURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build orion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setTenantHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send command %q: %w", cmd, err)
	}
	defer drain(resp)

	return checkStatus(resp)
}
