package netnutrition

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	PanelMenu  = "menuPanel"
	PanelItems = "itemPanel"
)

type Panel struct {
	ID   string `json:"id"`
	Html string `json:"html"`
}

// Envelope is the json wrapper the portal puts around every html fragment it returns.
type Envelope struct {
	Success bool    `json:"success"`
	Panels  []Panel `json:"panels"`
}

// DecodeEnvelope decodes an envelope, an envelope without `success: true` is a protocol failure.
func DecodeEnvelope(body []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(body, &env)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: decode envelope: %w", ErrProtocol, err)
	}
	if !env.Success {
		return env, fmt.Errorf("%w: envelope reported success: false", ErrProtocol)
	}
	return env, nil
}

// Panel returns the html of the first panel with the given id.
func (e Envelope) Panel(id string) (string, bool) {
	for _, p := range e.Panels {
		if p.ID == id {
			return p.Html, true
		}
	}
	return "", false
}

// RequirePanel is Panel but a present panel with blank html is a protocol failure.
// A missing panel is reported through ok = false without an error.
func (e Envelope) RequirePanel(id string) (html string, ok bool, err error) {
	html, ok = e.Panel(id)
	if !ok {
		return "", false, nil
	}
	if strings.TrimSpace(html) == "" {
		return "", true, fmt.Errorf("%w: panel %q is blank", ErrProtocol, id)
	}
	return html, true, nil
}
